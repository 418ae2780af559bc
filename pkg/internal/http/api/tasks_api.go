package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func listTasks(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	take := c.QueryInt("take", 10)
	offset := c.QueryInt("offset", 0)

	tasks, err := services.ListTasksFor(user, take, offset)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(tasks)
}

func getTask(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}
	if !task.CanBeViewedBy(user) {
		return fiber.NewError(fiber.StatusNotFound, "task not found or unavailable")
	}

	return c.JSON(fiber.Map{
		"task":                  task,
		"completion_percentage": task.CompletionPercentage(),
		"can_edit":              task.CanBeEditedBy(user),
	})
}

func completeTask(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}

	if task, err = services.CompleteTask(task, user); err != nil {
		return errorFor(err)
	}

	return c.JSON(task)
}

func getTaskOverview(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}
	if !task.CanBeViewedBy(user) {
		return fiber.NewError(fiber.StatusNotFound, "task not found or unavailable")
	}

	overview, err := services.GetTaskSurveyOverview(task)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(overview)
}

func autocompleteTasks(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	probe := c.Query("q")
	if len(probe) < 1 {
		return c.JSON(fiber.Map{"tasks": []any{}})
	}

	tasks, err := services.SearchTasks(probe)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"tasks": lo.Map(tasks, func(item models.Task, index int) fiber.Map {
			return fiber.Map{"id": item.ID, "title": item.Title}
		}),
	})
}
