package models

type ClientGroup struct {
	BaseModel

	Name        string   `json:"name"`
	Description string   `json:"description"`
	Clients     []Client `json:"clients,omitempty" gorm:"many2many:client_group_members"`
}

type Client struct {
	BaseModel

	Name                string        `json:"name" gorm:"index" validate:"required"`
	Address             *string       `json:"address"`
	TradingPointName    *string       `json:"trading_point_name"`
	TradingPointAddress *string       `json:"trading_point_address"`
	Groups              []ClientGroup `json:"groups,omitempty" gorm:"many2many:client_group_members"`

	EmployeeID *uint    `json:"employee_id"`
	Employee   *Account `json:"employee,omitempty"`
}
