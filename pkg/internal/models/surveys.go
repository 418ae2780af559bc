package models

import (
	"time"

	"gorm.io/datatypes"
)

type QuestionType = string

const (
	QuestionTypeText           = QuestionType("TEXT")
	QuestionTypeTextShort      = QuestionType("TEXT_SHORT")
	QuestionTypeRadio          = QuestionType("RADIO")
	QuestionTypeCheckbox       = QuestionType("CHECKBOX")
	QuestionTypeSelectSingle   = QuestionType("SELECT_SINGLE")
	QuestionTypeSelectMultiple = QuestionType("SELECT_MULTIPLE")
	QuestionTypePhoto          = QuestionType("PHOTO")
)

// Default literals used when a radio or checkbox question carries no
// custom choices.
const (
	DefaultChoiceYes = "да"
	DefaultChoiceNo  = "нет"
)

type SurveyQuestion struct {
	BaseModel

	TaskID       uint         `json:"task_id"`
	Task         *Task        `json:"-" gorm:"foreignKey:TaskID"`
	QuestionText string       `json:"question_text" validate:"required,max=500"`
	Order        int          `json:"order"`
	Type         QuestionType `json:"type" gorm:"default:'TEXT'"`

	Choices []SurveyQuestionChoice `json:"choices,omitempty" gorm:"constraint:OnDelete:CASCADE"`
}

func (v SurveyQuestion) HasCustomChoices() bool {
	return len(v.Choices) > 0
}

type SurveyQuestionChoice struct {
	BaseModel

	QuestionID uint   `json:"question_id" gorm:"column:survey_question_id"`
	ChoiceText string `json:"choice_text" validate:"required,max=200"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type SurveyAnswer struct {
	BaseModel

	QuestionID uint           `json:"question_id" gorm:"column:survey_question_id"`
	Question   SurveyQuestion `json:"question,omitempty" gorm:"foreignKey:QuestionID"`
	UserID     uint           `json:"user_id"`
	User       Account        `json:"user,omitempty" gorm:"foreignKey:UserID"`
	ClientID   uint           `json:"client_id"`
	Client     Client         `json:"client,omitempty" gorm:"constraint:OnDelete:CASCADE"`

	// TextAnswer carries the free text, the default yes/no literal, or
	// the comma-joined choice ids, depending on the question type.
	TextAnswer      *string                `json:"text_answer"`
	SelectedChoices []SurveyQuestionChoice `json:"selected_choices,omitempty" gorm:"many2many:survey_answer_choices"`

	Photos []SurveyAnswerPhoto `json:"photos,omitempty" gorm:"foreignKey:AnswerID;constraint:OnDelete:CASCADE"`
}

type SurveyAnswerPhoto struct {
	BaseModel

	AnswerID uint    `json:"answer_id"`
	FilePath string  `json:"file_path"`
	FileName string  `json:"file_name"`
	Location *string `json:"location"`
}

// SurveyAnswerGroupReadStatus tracks moderator review of a submission
// group: all answers from one user, for one client, under one task, on
// one calendar day.
type SurveyAnswerGroupReadStatus struct {
	BaseModel

	TaskID      uint           `json:"task_id" gorm:"uniqueIndex:idx_answer_group"`
	ClientID    uint           `json:"client_id" gorm:"uniqueIndex:idx_answer_group"`
	UserID      uint           `json:"user_id" gorm:"uniqueIndex:idx_answer_group"`
	DateCreated datatypes.Date `json:"date_created" gorm:"uniqueIndex:idx_answer_group"`

	ReadAt   *time.Time `json:"read_at"`
	ReadByID *uint      `json:"read_by_id"`
	ReadBy   *Account   `json:"read_by,omitempty" gorm:"foreignKey:ReadByID"`
}

type PhotoReport struct {
	BaseModel

	TaskID      uint    `json:"task_id"`
	Task        Task    `json:"task,omitempty"`
	ClientID    uint    `json:"client_id"`
	Client      Client  `json:"client,omitempty" gorm:"constraint:OnDelete:CASCADE"`
	Address     string  `json:"address"`
	StandCount  int     `json:"stand_count"`
	Comment     *string `json:"comment"`
	CreatedByID uint    `json:"created_by_id"`
	CreatedBy   Account `json:"created_by,omitempty" gorm:"foreignKey:CreatedByID"`

	Photos []PhotoReportItem `json:"photos,omitempty" gorm:"foreignKey:ReportID;constraint:OnDelete:CASCADE"`
}

type PhotoReportItem struct {
	BaseModel

	ReportID     uint     `json:"report_id"`
	FilePath     string   `json:"file_path"`
	FileName     string   `json:"file_name"`
	Description  *string  `json:"description"`
	QualityScore *float64 `json:"quality_score"`
	IsAccepted   bool     `json:"is_accepted"`
	Location     *string  `json:"location"`
}

// TaskStatistics is a denormalized snapshot refreshed by the cron job,
// kept for dashboards so they do not re-aggregate raw answers.
type TaskStatistics struct {
	BaseModel

	TaskID         uint              `json:"task_id" gorm:"uniqueIndex"`
	TotalResponses int               `json:"total_responses"`
	UniqueClients  int               `json:"unique_clients"`
	CompletionRate int               `json:"completion_rate"`
	SurveyStats    datatypes.JSONMap `json:"survey_stats"`
}
