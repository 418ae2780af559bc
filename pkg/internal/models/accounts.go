package models

type AccountRole = string

const (
	RoleEmployee  = AccountRole("EMPLOYEE")
	RoleModerator = AccountRole("MODERATOR")
	RoleClient    = AccountRole("CLIENT")
)

type Account struct {
	BaseModel

	Name         string      `json:"name" gorm:"uniqueIndex" validate:"required"`
	Nick         string      `json:"nick"`
	Role         AccountRole `json:"role" gorm:"default:'EMPLOYEE'"`
	Phone        *string     `json:"phone"`
	PasswordHash string      `json:"-"`
}

func (v Account) IsEmployee() bool {
	return v.Role == RoleEmployee
}

func (v Account) IsModerator() bool {
	return v.Role == RoleModerator
}

// DisplayName prefers the human-readable nick over the login name.
func (v Account) DisplayName() string {
	if len(v.Nick) > 0 {
		return v.Nick
	}
	return v.Name
}
