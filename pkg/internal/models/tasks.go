package models

type TaskStatus = string

const (
	TaskStatusDraft     = TaskStatus("DRAFT")
	TaskStatusSent      = TaskStatus("SENT")
	TaskStatusRework    = TaskStatus("REWORK")
	TaskStatusOnCheck   = TaskStatus("ON_CHECK")
	TaskStatusCompleted = TaskStatus("COMPLETED")
)

type TaskType = string

const (
	TaskTypeSurvey         = TaskType("SURVEY")
	TaskTypeEquipmentPhoto = TaskType("EQUIPMENT_PHOTO")
	TaskTypeSimplePhoto    = TaskType("SIMPLE_PHOTO")
)

type Task struct {
	BaseModel

	Title            string     `json:"title" validate:"required"`
	Description      *string    `json:"description"`
	Type             TaskType   `json:"type"`
	Status           TaskStatus `json:"status" gorm:"default:'DRAFT'"`
	IsActive         bool       `json:"is_active" gorm:"default:true"`
	ModeratorComment *string    `json:"moderator_comment"`

	// Survey progress, zero for photo task types.
	TargetCount  int `json:"target_count"`
	CurrentCount int `json:"current_count"`

	AssignedToID *uint    `json:"assigned_to_id"`
	AssignedTo   *Account `json:"assigned_to,omitempty"`
	ClientID     *uint    `json:"client_id"`
	Client       *Client  `json:"client,omitempty"`
	CreatedByID  *uint    `json:"created_by_id"`
	CreatedBy    *Account `json:"created_by,omitempty"`

	Questions []SurveyQuestion `json:"questions,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

// CanBeViewedBy reports whether the task shows up for the given account.
// Moderators see everything; employees only see active tasks in a
// submittable status that are assigned to them or left unassigned.
func (v Task) CanBeViewedBy(user Account) bool {
	switch user.Role {
	case RoleModerator:
		return true
	case RoleEmployee:
		if !v.IsActive {
			return false
		}
		switch v.Status {
		case TaskStatusSent, TaskStatusRework, TaskStatusOnCheck:
		default:
			return false
		}
		return v.AssignedToID == nil || *v.AssignedToID == user.ID
	default:
		return false
	}
}

func (v Task) CanBeEditedBy(user Account) bool {
	return user.Role == RoleModerator
}

// CompletionPercentage is the survey progress against the target,
// capped at 100. Photo tasks and targetless surveys report zero.
func (v Task) CompletionPercentage() int {
	if v.Type != TaskTypeSurvey || v.TargetCount <= 0 {
		return 0
	}
	return min(100, v.CurrentCount*100/v.TargetCount)
}
