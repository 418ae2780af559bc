package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func getGroupedAnswers(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	var filter services.AnswerGroupFilter
	if id := c.QueryInt("taskId", 0); id > 0 {
		v := uint(id)
		filter.TaskID = &v
	}
	if id := c.QueryInt("clientId", 0); id > 0 {
		v := uint(id)
		filter.ClientID = &v
	}
	if id := c.QueryInt("userId", 0); id > 0 {
		v := uint(id)
		filter.UserID = &v
	}

	groups, err := services.ListAnswerGroups(filter)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{"results": groups})
}

func markGroupAsRead(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		TaskID   uint   `json:"task_id" validate:"required"`
		ClientID uint   `json:"client_id" validate:"required"`
		UserID   uint   `json:"user_id" validate:"required"`
		Date     string `json:"date" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	status, err := services.MarkGroupRead(services.AnswerGroupKey{
		TaskID:   data.TaskID,
		ClientID: data.ClientID,
		UserID:   data.UserID,
		Date:     data.Date,
	}, user)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(status)
}
