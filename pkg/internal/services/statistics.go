package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/dgraph-io/ristretto"
	gocache "github.com/eko/gocache/lib/v4/cache"
	"github.com/eko/gocache/lib/v4/store"
	ristretto_store "github.com/eko/gocache/store/ristretto/v4"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

type ChoiceStatistic struct {
	Label      string  `json:"label"`
	Count      int     `json:"count"`
	Percentage float64 `json:"percentage"`
}

type PhotoAnswerRef struct {
	AnswerID uint             `json:"answer_id"`
	Photos   []AnswerPhotoRef `json:"photos"`
}

type QuestionStatistics struct {
	QuestionID      uint              `json:"question_id"`
	Question        string            `json:"question"`
	Type            string            `json:"type"`
	Total           int               `json:"total"`
	Choices         []ChoiceStatistic `json:"choices,omitempty"`
	TextAnswerCount int               `json:"text_answer_count,omitempty"`
	PhotoGroups     []PhotoAnswerRef  `json:"photo_groups,omitempty"`
}

var statisticsCache *gocache.Cache[QuestionStatistics]

func init() {
	inner, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10_000,
		MaxCost:     10_000_000,
		BufferItems: 64,
	})
	if err != nil {
		panic(err)
	}
	statisticsCache = gocache.New[QuestionStatistics](ristretto_store.NewRistretto(inner))
}

func questionStatisticsKey(questionID uint) string {
	return fmt.Sprintf("question-statistics#%d", questionID)
}

// FlushQuestionStatistics drops cached statistics after new answers land.
func FlushQuestionStatistics(questionIDs []uint) {
	for _, id := range questionIDs {
		_ = statisticsCache.Delete(context.Background(), questionStatisticsKey(id))
	}
}

// ComputeChoiceStatistics aggregates answer counts per choice with
// percentages rounded to the nearest half percent. Questions without
// custom choices fall back to the implicit yes/no pair; text questions
// report how many non-empty answers exist; photo questions list the
// answers carrying photos.
func ComputeChoiceStatistics(questionID uint) (QuestionStatistics, error) {
	ctx := context.Background()
	if cached, err := statisticsCache.Get(ctx, questionStatisticsKey(questionID)); err == nil {
		return cached, nil
	}

	var question models.SurveyQuestion
	if err := database.C.
		Preload("Choices", func(db *gorm.DB) *gorm.DB {
			return db.Order(`survey_question_choices."order"`)
		}).
		Where("id = ?", questionID).First(&question).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return QuestionStatistics{}, ErrNotFound
		}
		return QuestionStatistics{}, err
	}

	var answers []models.SurveyAnswer
	if err := database.C.
		Preload("SelectedChoices").
		Preload("Photos").
		Where("survey_question_id = ?", question.ID).
		Find(&answers).Error; err != nil {
		return QuestionStatistics{}, err
	}

	out := QuestionStatistics{
		QuestionID: question.ID,
		Question:   question.QuestionText,
		Type:       question.Type,
		Total:      len(answers),
	}

	switch question.Type {
	case models.QuestionTypeRadio, models.QuestionTypeCheckbox,
		models.QuestionTypeSelectSingle, models.QuestionTypeSelectMultiple:
		if question.HasCustomChoices() {
			out.Choices = lo.Map(question.Choices, func(choice models.SurveyQuestionChoice, index int) ChoiceStatistic {
				count := countChoiceAnswers(question, choice, answers)
				return ChoiceStatistic{
					Label:      choice.ChoiceText,
					Count:      count,
					Percentage: roundToHalfPercent(count, out.Total),
				}
			})
		} else {
			yes, no := countDefaultAnswers(question, answers)
			out.Choices = []ChoiceStatistic{
				{Label: "Да", Count: yes, Percentage: roundToHalfPercent(yes, out.Total)},
				{Label: "Нет", Count: no, Percentage: roundToHalfPercent(no, out.Total)},
			}
		}
	case models.QuestionTypeText, models.QuestionTypeTextShort:
		out.TextAnswerCount = lo.CountBy(answers, func(item models.SurveyAnswer) bool {
			return item.TextAnswer != nil && len(*item.TextAnswer) > 0
		})
	case models.QuestionTypePhoto:
		for _, answer := range answers {
			if len(answer.Photos) == 0 {
				continue
			}
			out.PhotoGroups = append(out.PhotoGroups, PhotoAnswerRef{
				AnswerID: answer.ID,
				Photos: lo.Map(answer.Photos, func(item models.SurveyAnswerPhoto, index int) AnswerPhotoRef {
					return AnswerPhotoRef{
						ID:   item.ID,
						URL:  PhotoURL(item.FilePath),
						Name: item.FileName,
					}
				}),
			})
		}
	}

	_ = statisticsCache.Set(ctx, questionStatisticsKey(question.ID), out, store.WithCost(1))

	return out, nil
}

func countChoiceAnswers(question models.SurveyQuestion, choice models.SurveyQuestionChoice, answers []models.SurveyAnswer) int {
	id := strconv.FormatUint(uint64(choice.ID), 10)

	switch question.Type {
	case models.QuestionTypeRadio, models.QuestionTypeCheckbox:
		return lo.CountBy(answers, func(item models.SurveyAnswer) bool {
			return lo.ContainsBy(item.SelectedChoices, func(sel models.SurveyQuestionChoice) bool {
				return sel.ID == choice.ID
			})
		})
	case models.QuestionTypeSelectSingle:
		return lo.CountBy(answers, func(item models.SurveyAnswer) bool {
			return item.TextAnswer != nil && *item.TextAnswer == id
		})
	case models.QuestionTypeSelectMultiple:
		// Substring containment over the comma-joined id list; a choice id
		// that is a prefix of another one ("1" inside "12") over-counts.
		// Kept as-is so historical numbers do not shift.
		return lo.CountBy(answers, func(item models.SurveyAnswer) bool {
			return item.TextAnswer != nil && strings.Contains(*item.TextAnswer, id)
		})
	default:
		return 0
	}
}

func countDefaultAnswers(question models.SurveyQuestion, answers []models.SurveyAnswer) (yes int, no int) {
	for _, answer := range answers {
		if answer.TextAnswer == nil {
			continue
		}
		text := strings.ToLower(*answer.TextAnswer)
		if question.Type == models.QuestionTypeCheckbox {
			// Checkbox default answers are comma-joined literals.
			if strings.Contains(text, models.DefaultChoiceYes) {
				yes++
			}
			if strings.Contains(text, models.DefaultChoiceNo) {
				no++
			}
		} else {
			switch text {
			case models.DefaultChoiceYes:
				yes++
			case models.DefaultChoiceNo:
				no++
			}
		}
	}
	return
}

func roundToHalfPercent(count int, total int) float64 {
	if total == 0 {
		return 0
	}
	return math.Round(float64(count)/float64(total)*100*2) / 2
}

type TaskSurveyOverview struct {
	TaskID         uint           `json:"task_id"`
	TotalResponses int            `json:"total_responses"`
	UniqueClients  int            `json:"unique_clients"`
	CompletionRate int            `json:"completion_rate"`
	QuestionCounts map[uint]int64 `json:"question_counts"`
}

// GetTaskSurveyOverview summarizes a survey task across all questions.
func GetTaskSurveyOverview(task models.Task) (TaskSurveyOverview, error) {
	out := TaskSurveyOverview{
		TaskID:         task.ID,
		CompletionRate: task.CompletionPercentage(),
		QuestionCounts: make(map[uint]int64),
	}

	var total int64
	if err := database.C.Model(&models.SurveyAnswer{}).
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.survey_question_id").
		Where("survey_questions.task_id = ?", task.ID).
		Count(&total).Error; err != nil {
		return out, err
	}
	out.TotalResponses = int(total)

	var uniqueClients int64
	if err := database.C.Model(&models.SurveyAnswer{}).
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.survey_question_id").
		Where("survey_questions.task_id = ?", task.ID).
		Distinct("survey_answers.client_id").
		Count(&uniqueClients).Error; err != nil {
		return out, err
	}
	out.UniqueClients = int(uniqueClients)

	for _, question := range task.Questions {
		var count int64
		if err := database.C.Model(&models.SurveyAnswer{}).
			Where("survey_question_id = ?", question.ID).
			Count(&count).Error; err != nil {
			return out, err
		}
		out.QuestionCounts[question.ID] = count
	}

	return out, nil
}
