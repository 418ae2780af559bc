package services

import (
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

// NewPhotoReport files a report against a photo-type task, storing every
// uploaded image in one transaction.
func NewPhotoReport(task models.Task, user models.Account, selector ClientSelector, report models.PhotoReport, uploads []PhotoUpload) (models.PhotoReport, error) {
	if task.Type != models.TaskTypeEquipmentPhoto && task.Type != models.TaskTypeSimplePhoto {
		return report, ErrInvalidSubmission
	}

	client, err := ResolveSubmissionClient(task, selector)
	if err != nil {
		return report, err
	}

	report.TaskID = task.ID
	report.ClientID = client.ID
	report.CreatedByID = user.ID

	err = database.C.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&report).Error; err != nil {
			return err
		}
		for _, upload := range uploads {
			if _, err := storeReportPhoto(tx, report, upload); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return report, err
	}

	return report, nil
}

func ListPhotoReports(taskID uint) ([]models.PhotoReport, error) {
	var reports []models.PhotoReport
	err := database.C.Preload("Photos").Preload("Client").Preload("CreatedBy").
		Where("task_id = ?", taskID).Order("created_at DESC").Find(&reports).Error
	return reports, err
}
