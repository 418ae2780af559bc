package models

import (
	"time"

	"github.com/samber/lo"
)

type AnnouncementAudience = string

const (
	AudienceAllEmployees = AnnouncementAudience("ALL_EMPLOYEES")
	AudienceModerators   = AnnouncementAudience("MODERATORS")
	AudienceAllUsers     = AnnouncementAudience("ALL_USERS")
	AudienceCustom       = AnnouncementAudience("CUSTOM")
)

type Announcement struct {
	BaseModel

	Title                   string               `json:"title" validate:"required,max=200"`
	Content                 string               `json:"content" validate:"required"`
	RequiresAcknowledgment  bool                 `json:"requires_acknowledgment"`
	TargetAudience          AnnouncementAudience `json:"target_audience" gorm:"default:'ALL_EMPLOYEES'"`

	AuthorID uint    `json:"author_id"`
	Author   Account `json:"author,omitempty" gorm:"foreignKey:AuthorID"`

	// Meaningful only when TargetAudience is AudienceCustom.
	Recipients []Account `json:"recipients,omitempty" gorm:"many2many:announcement_recipients"`
}

// CanBeSeenBy resolves the audience rule for one account. ALL_EMPLOYEES
// is not restricted to the employee role; it behaves the same as
// ALL_USERS, which matches the long-observed behavior the clients rely on.
func (v Announcement) CanBeSeenBy(user Account) bool {
	switch v.TargetAudience {
	case AudienceAllUsers:
		return true
	case AudienceAllEmployees:
		return true
	case AudienceModerators:
		return user.Role == RoleModerator
	case AudienceCustom:
		return lo.ContainsBy(v.Recipients, func(item Account) bool {
			return item.ID == user.ID
		})
	default:
		return false
	}
}

type AnnouncementReadStatus struct {
	BaseModel

	AnnouncementID uint `json:"announcement_id" gorm:"uniqueIndex:idx_announcement_reader"`
	UserID         uint `json:"user_id" gorm:"uniqueIndex:idx_announcement_reader"`

	ReadAt       *time.Time `json:"read_at"`
	Acknowledged bool       `json:"acknowledged"`
}
