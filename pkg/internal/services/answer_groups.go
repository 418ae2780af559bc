package services

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AnswerGroupKey identifies a submission group: everything one user
// answered for one client under one task on one calendar day.
type AnswerGroupKey struct {
	TaskID   uint   `json:"task_id"`
	ClientID uint   `json:"client_id"`
	UserID   uint   `json:"user_id"`
	Date     string `json:"date"`
}

func (v AnswerGroupKey) String() string {
	return fmt.Sprintf("%d_%d_%d_%s", v.TaskID, v.ClientID, v.UserID, v.Date)
}

type AnswerPhotoRef struct {
	ID   uint   `json:"id"`
	URL  string `json:"url"`
	Name string `json:"name"`
}

type AnswerSummary struct {
	QuestionID      uint             `json:"question_id"`
	Question        string           `json:"question"`
	QuestionType    string           `json:"question_type"`
	SelectedChoices []string         `json:"selected_choices"`
	TextAnswer      *string          `json:"text_answer"`
	Photos          []AnswerPhotoRef `json:"photos"`
	CreatedAt       time.Time        `json:"created_at"`
}

type AnswerGroup struct {
	Key           AnswerGroupKey  `json:"key"`
	ID            string          `json:"id"`
	TaskName      string          `json:"task_name"`
	ClientName    string          `json:"client_name"`
	UserName      string          `json:"user_name"`
	ModeratorName string          `json:"moderator_name"`
	DateCreated   time.Time       `json:"date_created"`
	Answers       []AnswerSummary `json:"answers"`
	IsNew         bool            `json:"is_new"`
	IsRead        bool            `json:"is_read"`
	ReadAt        *time.Time      `json:"read_at"`
}

type AnswerGroupFilter struct {
	TaskID   *uint
	ClientID *uint
	UserID   *uint
}

// ListAnswerGroups folds raw per-question answers into submission groups
// for moderator review. Groups keep first-seen ordering during the fold
// and are then sorted by their most recent answer, newest first. A group
// counts as new when it arrived within the last day and nobody marked it
// as read yet.
func ListAnswerGroups(filter AnswerGroupFilter) ([]AnswerGroup, error) {
	tx := database.C.Model(&models.SurveyAnswer{}).
		Joins("JOIN survey_questions ON survey_questions.id = survey_answers.survey_question_id").
		Preload("Question").
		Preload("Question.Task").
		Preload("Question.Task.CreatedBy").
		Preload("User").
		Preload("Client").
		Preload("SelectedChoices").
		Preload("Photos").
		Order("survey_answers.created_at DESC")

	if filter.TaskID != nil {
		tx = tx.Where("survey_questions.task_id = ?", *filter.TaskID)
	}
	if filter.ClientID != nil {
		tx = tx.Where("survey_answers.client_id = ?", *filter.ClientID)
	}
	if filter.UserID != nil {
		tx = tx.Where("survey_answers.user_id = ?", *filter.UserID)
	}

	var answers []models.SurveyAnswer
	if err := tx.Find(&answers).Error; err != nil {
		return nil, err
	}

	dayAgo := time.Now().Add(-24 * time.Hour)

	groups := make(map[AnswerGroupKey]*AnswerGroup)
	var order []AnswerGroupKey
	for _, answer := range answers {
		key := AnswerGroupKey{
			TaskID:   answer.Question.TaskID,
			ClientID: answer.ClientID,
			UserID:   answer.UserID,
			Date:     answer.CreatedAt.Format(time.DateOnly),
		}

		group, seen := groups[key]
		if !seen {
			readAt := resolveGroupReadAt(key)
			isRead := readAt != nil

			var taskName, moderatorName string
			if answer.Question.Task != nil {
				taskName = answer.Question.Task.Title
				if answer.Question.Task.CreatedBy != nil {
					moderatorName = answer.Question.Task.CreatedBy.DisplayName()
				}
			}

			group = &AnswerGroup{
				Key:           key,
				ID:            key.String(),
				TaskName:      taskName,
				ClientName:    answer.Client.Name,
				UserName:      answer.User.DisplayName(),
				ModeratorName: moderatorName,
				DateCreated:   answer.CreatedAt,
				IsNew:         answer.CreatedAt.After(dayAgo) && !isRead,
				IsRead:        isRead,
				ReadAt:        readAt,
			}
			groups[key] = group
			order = append(order, key)
		}

		group.Answers = append(group.Answers, AnswerSummary{
			QuestionID:   answer.QuestionID,
			Question:     answer.Question.QuestionText,
			QuestionType: answer.Question.Type,
			SelectedChoices: lo.Map(answer.SelectedChoices, func(item models.SurveyQuestionChoice, index int) string {
				return item.ChoiceText
			}),
			TextAnswer: answer.TextAnswer,
			Photos: lo.Map(answer.Photos, func(item models.SurveyAnswerPhoto, index int) AnswerPhotoRef {
				return AnswerPhotoRef{
					ID:   item.ID,
					URL:  PhotoURL(item.FilePath),
					Name: item.FileName,
				}
			}),
			CreatedAt: answer.CreatedAt,
		})
	}

	out := lo.Map(order, func(key AnswerGroupKey, index int) AnswerGroup {
		return *groups[key]
	})
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].DateCreated.After(out[j].DateCreated)
	})

	return out, nil
}

func resolveGroupReadAt(key AnswerGroupKey) *time.Time {
	date, err := time.Parse(time.DateOnly, key.Date)
	if err != nil {
		return nil
	}

	var status models.SurveyAnswerGroupReadStatus
	if err := database.C.
		Where("task_id = ? AND client_id = ? AND user_id = ? AND date_created = ?",
			key.TaskID, key.ClientID, key.UserID, datatypes.Date(date)).
		First(&status).Error; err != nil {
		return nil
	}
	return status.ReadAt
}

// MarkGroupRead records that a moderator reviewed the group. The call is
// an idempotent upsert on the group key: racing callers both land on the
// same row, the loser only refreshes read_at.
func MarkGroupRead(key AnswerGroupKey, reader models.Account) (models.SurveyAnswerGroupReadStatus, error) {
	date, err := time.Parse(time.DateOnly, key.Date)
	if err != nil {
		return models.SurveyAnswerGroupReadStatus{}, fmt.Errorf("malformed group date %q: %v", key.Date, err)
	}

	now := time.Now()

	var status models.SurveyAnswerGroupReadStatus
	if err := database.C.
		Where("task_id = ? AND client_id = ? AND user_id = ? AND date_created = ?",
			key.TaskID, key.ClientID, key.UserID, datatypes.Date(date)).
		First(&status).Error; err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return status, err
		}

		status = models.SurveyAnswerGroupReadStatus{
			TaskID:      key.TaskID,
			ClientID:    key.ClientID,
			UserID:      key.UserID,
			DateCreated: datatypes.Date(date),
			ReadAt:      &now,
			ReadByID:    &reader.ID,
		}
		err := database.C.Create(&status).Error
		return status, err
	}

	status.ReadAt = &now
	status.ReadByID = &reader.ID
	err = database.C.Save(&status).Error
	return status, err
}
