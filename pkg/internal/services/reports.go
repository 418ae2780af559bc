package services

import (
	"strconv"

	"github.com/rs/zerolog/log"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

// DoRebuildTaskStatistics refreshes the denormalized per-task snapshot
// used by dashboards. Runs from the cron scheduler.
func DoRebuildTaskStatistics() {
	var tasks []models.Task
	if err := database.C.
		Preload("Questions").
		Where("status = ?", models.TaskStatusCompleted).
		Find(&tasks).Error; err != nil {
		log.Error().Err(err).Msg("An error occurred when loading tasks for statistics rebuild.")
		return
	}

	for _, task := range tasks {
		if err := rebuildOneTaskStatistics(task); err != nil {
			log.Error().Err(err).Uint("task", task.ID).Msg("An error occurred when rebuilding task statistics.")
		}
	}

	log.Info().Int("tasks", len(tasks)).Msg("Task statistics snapshot rebuilt.")
}

func rebuildOneTaskStatistics(task models.Task) error {
	overview, err := GetTaskSurveyOverview(task)
	if err != nil {
		return err
	}

	detail := make(map[string]any)
	if task.Type == models.TaskTypeSurvey {
		for _, question := range task.Questions {
			stats, err := ComputeChoiceStatistics(question.ID)
			if err != nil {
				return err
			}
			detail[strconv.FormatUint(uint64(question.ID), 10)] = stats
		}
	}

	snapshot := models.TaskStatistics{
		TaskID:         task.ID,
		TotalResponses: overview.TotalResponses,
		UniqueClients:  overview.UniqueClients,
		CompletionRate: overview.CompletionRate,
		SurveyStats:    detail,
	}

	var existing models.TaskStatistics
	if err := database.C.Where("task_id = ?", task.ID).First(&existing).Error; err == nil {
		snapshot.ID = existing.ID
	}

	return database.C.Save(&snapshot).Error
}
