package services

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

func TestResolveSubmissionClient(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	romashka := createTestClient(t, "Ромашка ООО")
	vasilek := createTestClient(t, "Василёк")
	createTestClient(t, "Василёк Плюс")

	t.Run("TaskPinnedClientWins", func(t *testing.T) {
		task := createTestTask(t, models.Task{
			Title:    "Закреплённая",
			Type:     models.TaskTypeSurvey,
			ClientID: &romashka.ID,
		}, moderator)

		client, err := ResolveSubmissionClient(task, ClientSelector{Name: "Василёк"})
		require.NoError(t, err)
		assert.Equal(t, romashka.ID, client.ID)
	})

	task := createTestTask(t, models.Task{Title: "Свободная", Type: models.TaskTypeSurvey}, moderator)

	t.Run("ExplicitId", func(t *testing.T) {
		client, err := ResolveSubmissionClient(task, ClientSelector{ID: &vasilek.ID})
		require.NoError(t, err)
		assert.Equal(t, vasilek.ID, client.ID)
	})

	t.Run("ExactNameIgnoresCase", func(t *testing.T) {
		client, err := ResolveSubmissionClient(task, ClientSelector{Name: "ромашка ооо"})
		require.NoError(t, err)
		assert.Equal(t, romashka.ID, client.ID)
	})

	t.Run("ExactMatchBeatsSubstring", func(t *testing.T) {
		// "Василёк" is both an exact name and a substring of "Василёк Плюс".
		client, err := ResolveSubmissionClient(task, ClientSelector{Name: "Василёк"})
		require.NoError(t, err)
		assert.Equal(t, vasilek.ID, client.ID)
	})

	t.Run("SingleSubstringMatch", func(t *testing.T) {
		client, err := ResolveSubmissionClient(task, ClientSelector{Name: "ромаш"})
		require.NoError(t, err)
		assert.Equal(t, romashka.ID, client.ID)
	})

	t.Run("AmbiguousSubstring", func(t *testing.T) {
		_, err := ResolveSubmissionClient(task, ClientSelector{Name: "асилёк"})
		assert.ErrorIs(t, err, ErrAmbiguousClient)
	})

	t.Run("UnknownName", func(t *testing.T) {
		_, err := ResolveSubmissionClient(task, ClientSelector{Name: "Лютик"})
		assert.ErrorIs(t, err, ErrClientNotFound)
	})

	t.Run("EmptySelector", func(t *testing.T) {
		_, err := ResolveSubmissionClient(task, ClientSelector{})
		assert.ErrorIs(t, err, ErrClientNotFound)
	})
}

func TestSubmitSurveyResponse(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	employee := createTestAccount(t, "worker", models.RoleEmployee)
	client := createTestClient(t, "Ромашка ООО")

	task := createSentSurveyTask(t, moderator, 0,
		models.SurveyQuestion{QuestionText: "Выберите вариант", Type: models.QuestionTypeRadio, Order: 1, Choices: []models.SurveyQuestionChoice{
			{ChoiceText: "Первый", Order: 1},
			{ChoiceText: "Второй", Order: 2},
		}},
		models.SurveyQuestion{QuestionText: "Товар на месте?", Type: models.QuestionTypeRadio, Order: 2},
		models.SurveyQuestion{QuestionText: "Отметьте всё подходящее", Type: models.QuestionTypeCheckbox, Order: 3, Choices: []models.SurveyQuestionChoice{
			{ChoiceText: "Холодильник", Order: 1},
			{ChoiceText: "Стойка", Order: 2},
			{ChoiceText: "Плакат", Order: 3},
		}},
		models.SurveyQuestion{QuestionText: "Комментарий", Type: models.QuestionTypeText, Order: 4},
	)
	require.Len(t, task.Questions, 4)

	radioCustom := task.Questions[0]
	radioDefault := task.Questions[1]
	checkboxCustom := task.Questions[2]
	textQuestion := task.Questions[3]

	t.Run("PersistsPerQuestionType", func(t *testing.T) {
		answers, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: radioCustom.ID, Value: fmt.Sprintf("%d", radioCustom.Choices[1].ID)},
			{QuestionID: radioDefault.ID, Value: models.DefaultChoiceYes},
			{QuestionID: checkboxCustom.ID, Values: []string{
				fmt.Sprintf("%d", checkboxCustom.Choices[0].ID),
				fmt.Sprintf("%d", checkboxCustom.Choices[2].ID),
			}},
			{QuestionID: textQuestion.ID, Value: "Всё в порядке"},
		})
		require.NoError(t, err)
		require.Len(t, answers, 4)

		stored, err := GetAnswer(answers[0].ID)
		require.NoError(t, err)
		assert.Equal(t, radioCustom.ID, stored.QuestionID)

		var selected []models.SurveyQuestionChoice
		require.NoError(t, loadSelectedChoices(answers[0].ID, &selected))
		require.Len(t, selected, 1)
		assert.Equal(t, "Второй", selected[0].ChoiceText)

		require.NotNil(t, answers[1].TextAnswer)
		assert.Equal(t, models.DefaultChoiceYes, *answers[1].TextAnswer)

		require.NoError(t, loadSelectedChoices(answers[2].ID, &selected))
		assert.Len(t, selected, 2)

		require.NotNil(t, answers[3].TextAnswer)
		assert.Equal(t, "Всё в порядке", *answers[3].TextAnswer)
	})

	t.Run("RepeatedSubmissionsAccumulate", func(t *testing.T) {
		_, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: radioCustom.ID, Value: fmt.Sprintf("%d", radioCustom.Choices[0].ID)},
			{QuestionID: radioDefault.ID, Value: models.DefaultChoiceNo},
		})
		require.NoError(t, err)

		var count int64
		require.NoError(t, countAnswers(radioDefault.ID, &count))
		assert.Equal(t, int64(2), count)
	})

	t.Run("UnansweredRadioFailsWholeSubmission", func(t *testing.T) {
		var before int64
		require.NoError(t, countAnswers(textQuestion.ID, &before))

		_, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: textQuestion.ID, Value: "Без обязательных вопросов"},
		})
		assert.ErrorIs(t, err, ErrInvalidSubmission)

		var after int64
		require.NoError(t, countAnswers(textQuestion.ID, &after))
		assert.Equal(t, before, after)
	})

	t.Run("UnknownChoiceIsRejected", func(t *testing.T) {
		_, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: radioCustom.ID, Value: "99999"},
			{QuestionID: radioDefault.ID, Value: models.DefaultChoiceYes},
		})
		assert.ErrorIs(t, err, ErrInvalidSubmission)
	})
}

func TestAnswerPhotoLimits(t *testing.T) {
	setupTestDatabase(t)

	moderator := createTestAccount(t, "moder", models.RoleModerator)
	employee := createTestAccount(t, "worker", models.RoleEmployee)
	client := createTestClient(t, "Ромашка ООО")

	task := createSentSurveyTask(t, moderator, 0,
		models.SurveyQuestion{QuestionText: "Фото витрины", Type: models.QuestionTypePhoto, Order: 1},
	)
	photoQuestion := task.Questions[0]

	makeUploads := func(n int) []PhotoUpload {
		uploads := make([]PhotoUpload, 0, n)
		for i := 0; i < n; i++ {
			uploads = append(uploads, PhotoUpload{
				FileName: fmt.Sprintf("photo_%d.jpg", i),
				Data:     []byte{0xFF, 0xD8, 0xFF, byte(i)},
			})
		}
		return uploads
	}

	t.Run("SubmissionTruncatesSilently", func(t *testing.T) {
		answers, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: photoQuestion.ID, Photos: makeUploads(12)},
		})
		require.NoError(t, err)
		require.Len(t, answers, 1)

		stored, err := GetAnswer(answers[0].ID)
		require.NoError(t, err)
		assert.Len(t, stored.Photos, 10)
	})

	t.Run("AppendBeyondCapFailsWithoutPartialWrite", func(t *testing.T) {
		answers, err := SubmitSurveyResponse(task, employee, ClientSelector{ID: &client.ID}, []AnswerPayload{
			{QuestionID: photoQuestion.ID, Photos: makeUploads(8)},
		})
		require.NoError(t, err)

		answer, err := GetAnswer(answers[0].ID)
		require.NoError(t, err)

		_, err = AddAnswerPhotos(answer, makeUploads(5))
		assert.ErrorIs(t, err, ErrPhotoLimitExceeded)

		answer, err = GetAnswer(answer.ID)
		require.NoError(t, err)
		assert.Len(t, answer.Photos, 8)

		added, err := AddAnswerPhotos(answer, makeUploads(2))
		require.NoError(t, err)
		assert.Len(t, added, 2)
	})
}
