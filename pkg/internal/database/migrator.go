package database

import (
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

var AutoMaintainRange = []any{
	&models.Account{},
	&models.ClientGroup{},
	&models.Client{},
	&models.Task{},
	&models.SurveyQuestion{},
	&models.SurveyQuestionChoice{},
	&models.SurveyAnswer{},
	&models.SurveyAnswerPhoto{},
	&models.SurveyAnswerGroupReadStatus{},
	&models.PhotoReport{},
	&models.PhotoReportItem{},
	&models.Announcement{},
	&models.AnnouncementReadStatus{},
}

func RunMigration(source *gorm.DB) error {
	if err := source.AutoMigrate(
		append(
			AutoMaintainRange,
			&models.TaskStatistics{},
		)...,
	); err != nil {
		return err
	}

	return nil
}
