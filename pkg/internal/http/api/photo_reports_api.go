package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

type photoReportRequest struct {
	Client     services.ClientSelector `json:"client"`
	Address    string                  `json:"address"`
	StandCount int                     `json:"stand_count"`
	Comment    *string                 `json:"comment"`
}

func listPhotoReports(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	taskId, _ := c.ParamsInt("taskId")

	task, err := services.GetTask(uint(taskId))
	if err != nil {
		return errorFor(err)
	}
	if !task.CanBeViewedBy(user) && !user.IsModerator() {
		return fiber.NewError(fiber.StatusNotFound, "task not found or unavailable")
	}

	reports, err := services.ListPhotoReports(task.ID)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(reports)
}

func submitPhotoReport(c *fiber.Ctx) error {
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

	var data photoReportRequest
	var uploads []services.PhotoUpload
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		payload := form.Value["payload"]
		if len(payload) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "multipart submission is missing the payload field")
		}
		if err := jsoniter.UnmarshalFromString(payload[0], &data); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		for _, header := range form.File["photos"] {
			upload, err := readUpload(header)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			uploads = append(uploads, upload)
		}
	} else if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	if len(uploads) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "a photo report needs at least one photo")
	}

	report, err := services.NewPhotoReport(task, user, data.Client, models.PhotoReport{
		Address:    data.Address,
		StandCount: data.StandCount,
		Comment:    data.Comment,
	}, uploads)
	if err != nil {
		return errorFor(err)
	}

	if task, err = services.ApplySubmissionSideEffects(task); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"task":   task,
		"report": report,
	})
}
