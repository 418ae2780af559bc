package api

import (
	"fmt"
	"io"
	"mime/multipart"
	"strings"

	"github.com/gofiber/fiber/v2"
	jsoniter "github.com/json-iterator/go"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

type surveyResponseRequest struct {
	Client  services.ClientSelector  `json:"client"`
	Answers []services.AnswerPayload `json:"answers" validate:"required"`
}

func submitSurveyResponse(c *fiber.Ctx) error {
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
	if task.Type != models.TaskTypeSurvey {
		return fiber.NewError(fiber.StatusNotFound, "task is not a survey")
	}

	var data surveyResponseRequest
	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		if err := bindMultipartResponse(c, &data); err != nil {
			return err
		}
	} else if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	answers, err := services.SubmitSurveyResponse(task, user, data.Client, data.Answers)
	if err != nil {
		return errorFor(err)
	}

	if task, err = services.ApplySubmissionSideEffects(task); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"task":    task,
		"answers": answers,
	})
}

// bindMultipartResponse reads the json payload out of the "payload" form
// field and attaches uploaded files to their question by the
// "question_<id>" file key convention.
func bindMultipartResponse(c *fiber.Ctx, data *surveyResponseRequest) error {
	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	payload := form.Value["payload"]
	if len(payload) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "multipart submission is missing the payload field")
	}
	if err := jsoniter.UnmarshalFromString(payload[0], data); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	for idx, answer := range data.Answers {
		headers := form.File[fmt.Sprintf("question_%d", answer.QuestionID)]
		for _, header := range headers {
			upload, err := readUpload(header)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, err.Error())
			}
			data.Answers[idx].Photos = append(data.Answers[idx].Photos, upload)
		}
	}

	return nil
}

func addAnswerPhotos(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	answerId, _ := c.ParamsInt("answerId")

	answer, err := services.GetAnswer(uint(answerId))
	if err != nil {
		return errorFor(err)
	}

	form, err := c.MultipartForm()
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	var uploads []services.PhotoUpload
	for _, header := range form.File["photos"] {
		upload, err := readUpload(header)
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		uploads = append(uploads, upload)
	}
	if len(uploads) == 0 {
		return fiber.NewError(fiber.StatusBadRequest, "no photos were uploaded")
	}

	photos, err := services.AddAnswerPhotos(answer, uploads)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(photos)
}

func readUpload(header *multipart.FileHeader) (services.PhotoUpload, error) {
	file, err := header.Open()
	if err != nil {
		return services.PhotoUpload{}, err
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return services.PhotoUpload{}, err
	}

	return services.PhotoUpload{FileName: header.Filename, Data: data}, nil
}
