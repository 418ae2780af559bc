package admin

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func adminExportTaskAnswers(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	file, err := services.ExportTaskAnswers(task)
	if err != nil {
		return errorFor(err)
	}
	defer file.Close()

	c.Set(fiber.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="task_%d_answers.xlsx"`, task.ID))

	if err := file.Write(c.Response().BodyWriter()); err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}

	return nil
}
