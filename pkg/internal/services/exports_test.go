package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

func TestExportTaskAnswers(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	employee, err := NewAccount("worker", "Иван Петров", "secret123", models.RoleEmployee)
	require.NoError(t, err)
	client := createTestClient(t, "Ромашка ООО")

	task := createSentSurveyTask(t, moderator, 0,
		models.SurveyQuestion{QuestionText: "Товар на месте?", Type: models.QuestionTypeRadio, Order: 1},
		models.SurveyQuestion{QuestionText: "Комментарий", Type: models.QuestionTypeText, Order: 2},
	)

	_, err = SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
		{QuestionID: task.Questions[0].ID, Value: models.DefaultChoiceYes},
		{QuestionID: task.Questions[1].ID, Value: "Всё в порядке"},
	})
	require.NoError(t, err)

	book, err := ExportTaskAnswers(task)
	require.NoError(t, err)
	defer book.Close()

	sheet := book.GetSheetName(0)
	assert.Contains(t, sheet, "Ответы")

	rows, err := book.GetRows(sheet)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "Клиент", rows[0][0])
	assert.Equal(t, "Вопрос", rows[0][3])

	assert.Equal(t, "Ромашка ООО", rows[1][0])
	assert.Equal(t, "Иван Петров", rows[1][1])
	assert.Equal(t, "Товар на месте?", rows[1][3])
	assert.Equal(t, "Радиокнопки", rows[1][4])
	assert.Equal(t, "да", rows[1][6])

	assert.Equal(t, "Комментарий", rows[2][3])
	assert.Equal(t, "Всё в порядке", rows[2][6])
}

func TestExportSheetNameTruncation(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)

	task := createTestTask(t, models.Task{
		Title: "Очень длинное название задачи которое не помещается",
		Type:  models.TaskTypeSurvey,
	}, moderator)

	book, err := ExportTaskAnswers(task)
	require.NoError(t, err)
	defer book.Close()

	sheet := book.GetSheetName(0)
	assert.Equal(t, "Ответы Очень длинное назван", sheet)
}
