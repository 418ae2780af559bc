package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

type questionChoiceRequest struct {
	ChoiceText string `json:"choice_text" validate:"required,max=200"`
	IsCorrect  bool   `json:"is_correct"`
	Order      int    `json:"order"`
}

type questionRequest struct {
	QuestionText string                  `json:"question_text" validate:"required,max=500"`
	Type         string                  `json:"type"`
	Order        int                     `json:"order"`
	Choices      []questionChoiceRequest `json:"choices"`
}

type taskRequest struct {
	Title        string            `json:"title" validate:"required"`
	Description  *string           `json:"description"`
	Type         string            `json:"type" validate:"required"`
	TargetCount  int               `json:"target_count"`
	AssignedToID *uint             `json:"assigned_to_id"`
	ClientID     *uint             `json:"client_id"`
	Questions    []questionRequest `json:"questions"`
}

func buildQuestions(data []questionRequest) []models.SurveyQuestion {
	return lo.Map(data, func(item questionRequest, index int) models.SurveyQuestion {
		return models.SurveyQuestion{
			QuestionText: item.QuestionText,
			Type:         item.Type,
			Order:        item.Order,
			Choices: lo.Map(item.Choices, func(choice questionChoiceRequest, index int) models.SurveyQuestionChoice {
				return models.SurveyQuestionChoice{
					ChoiceText: choice.ChoiceText,
					IsCorrect:  choice.IsCorrect,
					Order:      choice.Order,
				}
			}),
		}
	})
}

func adminCreateTask(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data taskRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	task, err := services.NewTask(models.Task{
		Title:        data.Title,
		Description:  data.Description,
		Type:         data.Type,
		TargetCount:  data.TargetCount,
		AssignedToID: data.AssignedToID,
		ClientID:     data.ClientID,
		Questions:    buildQuestions(data.Questions),
	}, user)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(task)
}

func adminEditTask(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	var data taskRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	task.Title = data.Title
	task.Description = data.Description
	task.TargetCount = data.TargetCount
	task.AssignedToID = data.AssignedToID
	task.ClientID = data.ClientID

	if task, err = services.EditTask(task, user); err != nil {
		return errorFor(err)
	}

	return c.JSON(task)
}

func adminDeleteTask(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	if err := services.DeleteTask(task, user); err != nil {
		return errorFor(err)
	}

	return c.SendStatus(fiber.StatusOK)
}

func adminSendTask(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	if task, err = services.SendTask(task, user); err != nil {
		return errorFor(err)
	}

	return c.JSON(task)
}

func adminReworkTask(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	var data struct {
		Comment *string `json:"comment"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	if task, err = services.ReworkTask(task, user, data.Comment); err != nil {
		return errorFor(err)
	}

	return c.JSON(task)
}
