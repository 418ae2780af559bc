package services

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/database"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"gorm.io/gorm"
)

const answerPhotoLimit = 10

// ClientSelector is how a submission names its client when the task does
// not pin one: by id when the UI resolved it, by free-typed name otherwise.
type ClientSelector struct {
	ID   *uint  `json:"id"`
	Name string `json:"name"`
}

type AnswerPayload struct {
	QuestionID uint          `json:"question_id" validate:"required"`
	Value      string        `json:"value"`
	Values     []string      `json:"values"`
	Photos     []PhotoUpload `json:"-"`
}

// ResolveSubmissionClient picks the client a submission pertains to.
// Resolution is three-tiered: explicit id, exact case-insensitive name,
// then a single substring match accepted with a logged warning. The last
// tier tolerates minor typos at the cost of an ambiguity failure when
// several clients match.
func ResolveSubmissionClient(task models.Task, selector ClientSelector) (models.Client, error) {
	if task.ClientID != nil {
		return GetClient(*task.ClientID)
	}

	if selector.ID != nil {
		client, err := GetClient(*selector.ID)
		if err == nil {
			return client, nil
		}
	}

	name := strings.TrimSpace(selector.Name)
	if len(name) == 0 {
		return models.Client{}, ErrClientNotFound
	}

	var clients []models.Client
	if err := database.C.Find(&clients).Error; err != nil {
		return models.Client{}, err
	}

	exact := lo.Filter(clients, func(item models.Client, index int) bool {
		return strings.EqualFold(item.Name, name)
	})
	if len(exact) == 1 {
		return exact[0], nil
	}
	if len(exact) > 1 {
		return models.Client{}, ErrAmbiguousClient
	}

	probe := strings.ToLower(name)
	partial := lo.Filter(clients, func(item models.Client, index int) bool {
		return strings.Contains(strings.ToLower(item.Name), probe)
	})
	switch len(partial) {
	case 0:
		return models.Client{}, ErrClientNotFound
	case 1:
		log.Warn().Str("query", name).Str("matched", partial[0].Name).
			Msg("Fuzzy match used during client resolution.")
		return partial[0], nil
	default:
		return models.Client{}, ErrAmbiguousClient
	}
}

// SubmitSurveyResponse persists one submission: a fresh SurveyAnswer per
// answered question, typed by the question kind. Repeated submissions
// accumulate; nothing is ever overwritten. The whole write is one
// transaction so a failing question leaves no partial state.
func SubmitSurveyResponse(task models.Task, user models.Account, selector ClientSelector, payloads []AnswerPayload) ([]models.SurveyAnswer, error) {
	client, err := ResolveSubmissionClient(task, selector)
	if err != nil {
		return nil, err
	}

	byQuestion := lo.SliceToMap(payloads, func(item AnswerPayload) (uint, AnswerPayload) {
		return item.QuestionID, item
	})

	var out []models.SurveyAnswer
	err = database.C.Transaction(func(tx *gorm.DB) error {
		for _, question := range task.Questions {
			payload, answered := byQuestion[question.ID]
			if !answered {
				if question.Type == models.QuestionTypeRadio {
					return fmt.Errorf("%w: question %d", ErrInvalidSubmission, question.ID)
				}
				continue
			}

			answer := models.SurveyAnswer{
				QuestionID: question.ID,
				UserID:     user.ID,
				ClientID:   client.ID,
			}

			switch question.Type {
			case models.QuestionTypeRadio:
				if question.HasCustomChoices() {
					choice, err := pickChoice(question, payload.Value)
					if err != nil {
						return err
					}
					answer.SelectedChoices = []models.SurveyQuestionChoice{choice}
				} else {
					answer.TextAnswer = &payload.Value
				}
			case models.QuestionTypeCheckbox:
				if question.HasCustomChoices() {
					for _, raw := range payload.Values {
						choice, err := pickChoice(question, raw)
						if err != nil {
							return err
						}
						answer.SelectedChoices = append(answer.SelectedChoices, choice)
					}
				} else {
					joined := strings.Join(payload.Values, ", ")
					answer.TextAnswer = &joined
				}
			case models.QuestionTypeSelectMultiple:
				joined := strings.Join(payload.Values, ", ")
				answer.TextAnswer = &joined
			case models.QuestionTypeText, models.QuestionTypeTextShort, models.QuestionTypeSelectSingle:
				answer.TextAnswer = &payload.Value
			case models.QuestionTypePhoto:
			}

			if err := tx.Omit("SelectedChoices.*").Create(&answer).Error; err != nil {
				return err
			}

			if question.Type == models.QuestionTypePhoto {
				// Anything past the cap is dropped silently on submission.
				uploads := payload.Photos
				if len(uploads) > answerPhotoLimit {
					uploads = uploads[:answerPhotoLimit]
				}
				for _, upload := range uploads {
					if _, err := storeAnswerPhoto(tx, answer, client, upload); err != nil {
						return err
					}
				}
			}

			out = append(out, answer)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	FlushQuestionStatistics(lo.Map(task.Questions, func(item models.SurveyQuestion, index int) uint {
		return item.ID
	}))

	return out, nil
}

func pickChoice(question models.SurveyQuestion, raw string) (models.SurveyQuestionChoice, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return models.SurveyQuestionChoice{}, fmt.Errorf("%w: malformed choice id %q", ErrInvalidSubmission, raw)
	}
	choice, ok := lo.Find(question.Choices, func(item models.SurveyQuestionChoice) bool {
		return item.ID == uint(id)
	})
	if !ok {
		return choice, fmt.Errorf("%w: question %d has no choice %d", ErrInvalidSubmission, question.ID, id)
	}
	return choice, nil
}

func GetAnswer(id uint) (models.SurveyAnswer, error) {
	var answer models.SurveyAnswer
	if err := database.C.
		Preload("Question").
		Preload("Photos").
		Where("id = ?", id).First(&answer).Error; err != nil {
		return answer, ErrNotFound
	}
	return answer, nil
}

// AddAnswerPhotos appends photos to an existing answer after submission.
// Exceeding the ten photo cap fails the whole call; no partial write.
func AddAnswerPhotos(answer models.SurveyAnswer, uploads []PhotoUpload) ([]models.SurveyAnswerPhoto, error) {
	var count int64
	if err := database.C.Model(&models.SurveyAnswerPhoto{}).
		Where("answer_id = ?", answer.ID).Count(&count).Error; err != nil {
		return nil, err
	}
	if int(count)+len(uploads) > answerPhotoLimit {
		return nil, ErrPhotoLimitExceeded
	}

	client, err := GetClient(answer.ClientID)
	if err != nil {
		return nil, err
	}

	var photos []models.SurveyAnswerPhoto
	err = database.C.Transaction(func(tx *gorm.DB) error {
		for _, upload := range uploads {
			photo, err := storeAnswerPhoto(tx, answer, client, upload)
			if err != nil {
				return err
			}
			photos = append(photos, photo)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return photos, nil
}
