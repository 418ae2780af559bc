package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

func TestPhotoReports(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	employee := createTestAccount(t, "worker", models.RoleEmployee)
	client := createTestClient(t, "Ромашка ООО")

	uploads := []PhotoUpload{
		{FileName: "front.jpg", Data: []byte{0xFF, 0xD8, 0xFF, 0x01}},
		{FileName: "back.jpg", Data: []byte{0xFF, 0xD8, 0xFF, 0x02}},
	}

	t.Run("SurveyTaskRejectsReports", func(t *testing.T) {
		task := createSentSurveyTask(t, moderator, 0)

		_, err := NewPhotoReport(task, employee, ClientSelector{ID: &client.ID}, models.PhotoReport{}, uploads)
		assert.ErrorIs(t, err, ErrInvalidSubmission)
	})

	t.Run("StoresReportWithPhotos", func(t *testing.T) {
		task := createTestTask(t, models.Task{Title: "Фото оборудования", Type: models.TaskTypeEquipmentPhoto}, moderator)
		task, err := SendTask(task, moderator)
		require.NoError(t, err)

		comment := "Стойка у входа"
		report, err := NewPhotoReport(task, employee, ClientSelector{ID: &client.ID}, models.PhotoReport{
			Address:    "ул. Ленина, 1",
			StandCount: 2,
			Comment:    &comment,
		}, uploads)
		require.NoError(t, err)
		assert.Equal(t, task.ID, report.TaskID)
		assert.Equal(t, client.ID, report.ClientID)
		assert.Equal(t, employee.ID, report.CreatedByID)

		reports, err := ListPhotoReports(task.ID)
		require.NoError(t, err)
		require.Len(t, reports, 1)
		assert.Len(t, reports[0].Photos, 2)
		assert.Equal(t, "Ромашка ООО", reports[0].Client.Name)
		assert.Equal(t, "front.jpg", reports[0].Photos[0].FileName)
	})

	t.Run("ResolvesClientByName", func(t *testing.T) {
		task := createTestTask(t, models.Task{Title: "Простое фото", Type: models.TaskTypeSimplePhoto}, moderator)
		task, err := SendTask(task, moderator)
		require.NoError(t, err)

		report, err := NewPhotoReport(task, employee, ClientSelector{Name: "ромашка ооо"}, models.PhotoReport{}, uploads)
		require.NoError(t, err)
		assert.Equal(t, client.ID, report.ClientID)
	})
}
