package services

import (
	"errors"
	"regexp"

	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

func GetTask(id uint) (models.Task, error) {
	var task models.Task
	if err := database.C.
		Preload("Questions", func(db *gorm.DB) *gorm.DB {
			return db.Order(`survey_questions."order"`)
		}).
		Preload("Questions.Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`survey_question_choices."order"`)
		}).
		Preload("Client").
		Preload("AssignedTo").
		Preload("CreatedBy").
		Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return task, ErrNotFound
		}
		return task, err
	}
	return task, nil
}

// ListTasksFor applies the visibility predicate in SQL so employees only
// ever receive tasks they are allowed to open.
func ListTasksFor(user models.Account, take int, offset int) ([]models.Task, error) {
	tx := database.C.Model(&models.Task{})

	switch user.Role {
	case models.RoleModerator:
	case models.RoleEmployee:
		tx = tx.Where("is_active = ?", true).
			Where("status IN ?", []models.TaskStatus{
				models.TaskStatusSent,
				models.TaskStatusRework,
				models.TaskStatusOnCheck,
			}).
			Where("assigned_to_id = ? OR assigned_to_id IS NULL", user.ID)
	default:
		return []models.Task{}, nil
	}

	var tasks []models.Task
	err := tx.Preload("Client").Preload("AssignedTo").
		Order("created_at DESC").Offset(offset).Limit(take).Find(&tasks).Error
	return tasks, err
}

func NewTask(task models.Task, creator models.Account) (models.Task, error) {
	if !creator.IsModerator() {
		return task, ErrPermissionDenied
	}

	task.Status = models.TaskStatusDraft
	task.IsActive = true
	task.CreatedByID = &creator.ID

	err := database.C.Create(&task).Error
	return task, err
}

func EditTask(task models.Task, editor models.Account) (models.Task, error) {
	if !task.CanBeEditedBy(editor) {
		return task, ErrPermissionDenied
	}

	err := database.C.Save(&task).Error
	return task, err
}

func DeleteTask(task models.Task, editor models.Account) error {
	if !task.CanBeEditedBy(editor) {
		return ErrPermissionDenied
	}

	return database.C.Delete(&task).Error
}

// SendTask dispatches a draft to the field. Only drafts can be sent.
func SendTask(task models.Task, user models.Account) (models.Task, error) {
	if !task.CanBeEditedBy(user) {
		return task, ErrPermissionDenied
	}
	if task.Status != models.TaskStatusDraft {
		return task, ErrInvalidSubmission
	}

	task.Status = models.TaskStatusSent
	task.IsActive = true

	err := database.C.Model(&task).Updates(map[string]any{
		"status":    task.Status,
		"is_active": true,
	}).Error
	return task, err
}

// ReworkTask sends the task back to the assignee with a comment
// explaining what to redo. The task reopens for submissions.
func ReworkTask(task models.Task, user models.Account, comment *string) (models.Task, error) {
	if !task.CanBeEditedBy(user) {
		return task, ErrPermissionDenied
	}

	task.Status = models.TaskStatusRework
	task.IsActive = true
	task.ModeratorComment = comment

	err := database.C.Model(&task).Updates(map[string]any{
		"status":            task.Status,
		"is_active":         true,
		"moderator_comment": comment,
	}).Error
	return task, err
}

// CompleteTask finalizes the task. Allowed to any moderator, or to the
// employee the task is assigned to.
func CompleteTask(task models.Task, user models.Account) (models.Task, error) {
	allowed := task.CanBeEditedBy(user) ||
		(user.IsEmployee() && task.AssignedToID != nil && *task.AssignedToID == user.ID)
	if !allowed {
		return task, ErrPermissionDenied
	}

	task.Status = models.TaskStatusCompleted
	task.IsActive = false

	err := database.C.Model(&task).Updates(map[string]any{
		"status":    task.Status,
		"is_active": false,
	}).Error
	return task, err
}

// ApplySubmissionSideEffects advances the task after one successful
// submission. Photo tasks are single-shot: they close and go on check.
// Surveys bump the counter atomically and, once the target is reached,
// move to on-check while staying open for further responses until a
// moderator finalizes them.
func ApplySubmissionSideEffects(task models.Task) (models.Task, error) {
	switch task.Type {
	case models.TaskTypeEquipmentPhoto, models.TaskTypeSimplePhoto:
		task.Status = models.TaskStatusOnCheck
		task.IsActive = false
		err := database.C.Model(&task).Updates(map[string]any{
			"status":    task.Status,
			"is_active": false,
		}).Error
		return task, err
	case models.TaskTypeSurvey:
		if err := database.C.Model(&task).
			Update("current_count", gorm.Expr("current_count + 1")).Error; err != nil {
			return task, err
		}
		if err := database.C.Where("id = ?", task.ID).First(&task).Error; err != nil {
			return task, err
		}
		if task.TargetCount > 0 && task.CurrentCount >= task.TargetCount &&
			task.Status != models.TaskStatusCompleted {
			task.Status = models.TaskStatusOnCheck
			if err := database.C.Model(&task).
				Update("status", task.Status).Error; err != nil {
				return task, err
			}
		}
		return task, nil
	default:
		return task, nil
	}
}

// SearchTasks backs the task autocomplete, same matching rules as the
// client search.
func SearchTasks(probe string) ([]models.Task, error) {
	matcher, err := regexp.Compile("(?i)" + regexp.QuoteMeta(probe))
	if err != nil {
		return nil, err
	}

	var tasks []models.Task
	if err := database.C.Order("created_at DESC").Find(&tasks).Error; err != nil {
		return nil, err
	}

	out := make([]models.Task, 0, searchResultLimit)
	for _, task := range tasks {
		if matcher.MatchString(task.Title) {
			out = append(out, task)
			if len(out) >= searchResultLimit {
				break
			}
		}
	}

	return out, nil
}
