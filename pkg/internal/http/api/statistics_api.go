package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func getQuestionStatistics(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	questionId, _ := c.ParamsInt("questionId")

	stats, err := services.ComputeChoiceStatistics(uint(questionId))
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(stats)
}
