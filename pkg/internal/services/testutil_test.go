package services

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDatabase(t *testing.T) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	// In-memory sqlite gives every connection its own database, keep the
	// pool at a single connection so all queries see the same state.
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, database.RunMigration(db))
	database.C = db

	viper.Set("paths.media", t.TempDir())
	viper.Set("security.jwt_secret", "test-secret")

	// Ids restart from one in every fresh database, drop anything the
	// previous test left in the statistics cache.
	ids := make([]uint, 0, 256)
	for i := uint(1); i <= 256; i++ {
		ids = append(ids, i)
	}
	FlushQuestionStatistics(ids)
}

func createTestAccount(t *testing.T, name string, role models.AccountRole) models.Account {
	t.Helper()

	account, err := NewAccount(name, "", "secret123", role)
	require.NoError(t, err)
	return account
}

func createTestClient(t *testing.T, name string) models.Client {
	t.Helper()

	client, err := NewClient(models.Client{Name: name})
	require.NoError(t, err)
	return client
}

func createTestTask(t *testing.T, task models.Task, creator models.Account) models.Task {
	t.Helper()

	task, err := NewTask(task, creator)
	require.NoError(t, err)
	return task
}

func loadSelectedChoices(answerID uint, out *[]models.SurveyQuestionChoice) error {
	answer := models.SurveyAnswer{BaseModel: models.BaseModel{ID: answerID}}
	*out = nil
	return database.C.Model(&answer).Association("SelectedChoices").Find(out)
}

func countAnswers(questionID uint, out *int64) error {
	return database.C.Model(&models.SurveyAnswer{}).
		Where("survey_question_id = ?", questionID).Count(out).Error
}

// createSentSurveyTask builds a survey already dispatched to the field,
// reloaded so questions and choices carry their assigned ids.
func createSentSurveyTask(t *testing.T, creator models.Account, target int, questions ...models.SurveyQuestion) models.Task {
	t.Helper()

	task := createTestTask(t, models.Task{
		Title:       "Опрос по точкам",
		Type:        models.TaskTypeSurvey,
		TargetCount: target,
		Questions:   questions,
	}, creator)

	task, err := SendTask(task, creator)
	require.NoError(t, err)

	task, err = GetTask(task.ID)
	require.NoError(t, err)
	return task
}
