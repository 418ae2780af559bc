package services

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/xuri/excelize/v2"
)

var questionTypeLabels = map[models.QuestionType]string{
	models.QuestionTypeText:           "Текстовое поле",
	models.QuestionTypeTextShort:      "Короткое текстовое поле",
	models.QuestionTypeRadio:          "Радиокнопки",
	models.QuestionTypeCheckbox:       "Чекбоксы",
	models.QuestionTypeSelectSingle:   "Выбор из списка",
	models.QuestionTypeSelectMultiple: "Множественный выбор из списка",
	models.QuestionTypePhoto:          "Фото",
}

var exportHeaders = []string{
	"Клиент", "Сотрудник", "Дата ответа", "Вопрос", "Тип вопроса",
	"Выбранные варианты", "Текстовый ответ", "Количество фото",
}

// ExportTaskAnswers renders every answer of a task into a spreadsheet,
// one row per answer, ordered by client then question order.
func ExportTaskAnswers(task models.Task) (*excelize.File, error) {
	var answers []models.SurveyAnswer
	if err := database.C.
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.survey_question_id").
		Joins("JOIN clients ON clients.id = survey_answers.client_id").
		Preload("Question").
		Preload("User").
		Preload("Client").
		Preload("SelectedChoices").
		Preload("Photos").
		Where("survey_questions.task_id = ?", task.ID).
		Order(`clients.name, survey_questions."order", survey_answers.created_at`).
		Find(&answers).Error; err != nil {
		return nil, err
	}

	book := excelize.NewFile()
	sheet := book.GetSheetName(0)

	title := task.Title
	if runes := []rune(title); len(runes) > 20 {
		title = string(runes[:20])
	}
	_ = book.SetSheetName(sheet, fmt.Sprintf("Ответы %s", title))
	sheet = book.GetSheetName(0)

	headerStyle, err := book.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"D3D3D3"}},
	})
	if err != nil {
		return nil, err
	}

	for idx, header := range exportHeaders {
		cell, _ := excelize.CoordinatesToCellName(idx+1, 1)
		_ = book.SetCellValue(sheet, cell, header)
		_ = book.SetCellStyle(sheet, cell, cell, headerStyle)
	}

	for row, answer := range answers {
		text := ""
		if answer.TextAnswer != nil {
			text = *answer.TextAnswer
		}

		values := []any{
			answer.Client.Name,
			answer.User.DisplayName(),
			answer.CreatedAt.Format("02.01.2006 15:04:05"),
			answer.Question.QuestionText,
			questionTypeLabels[answer.Question.Type],
			strings.Join(lo.Map(answer.SelectedChoices, func(item models.SurveyQuestionChoice, index int) string {
				return item.ChoiceText
			}), ", "),
			text,
			len(answer.Photos),
		}

		for idx, value := range values {
			cell, _ := excelize.CoordinatesToCellName(idx+1, row+2)
			_ = book.SetCellValue(sheet, cell, value)
		}
	}

	return book, nil
}
