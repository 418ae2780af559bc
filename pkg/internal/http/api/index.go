package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func MapAPIs(app *fiber.App, baseURL string) {
	api := app.Group(baseURL).Name("API")
	{
		api.Post("/auth/login", login)

		tasks := api.Group("/tasks").Name("Tasks API")
		{
			tasks.Get("/", listTasks)
			tasks.Get("/autocomplete", autocompleteTasks)
			tasks.Get("/:taskId", getTask)
			tasks.Post("/:taskId/complete", completeTask)
			tasks.Post("/:taskId/responses", submitSurveyResponse)
			tasks.Get("/:taskId/overview", getTaskOverview)
			tasks.Get("/:taskId/photo-reports", listPhotoReports)
			tasks.Post("/:taskId/photo-reports", submitPhotoReport)
		}

		answers := api.Group("/answers").Name("Answers API")
		{
			answers.Get("/groups", getGroupedAnswers)
			answers.Post("/groups/read", markGroupAsRead)
			answers.Post("/:answerId/photos", addAnswerPhotos)
		}

		api.Get("/questions/:questionId/statistics", getQuestionStatistics)

		announcements := api.Group("/announcements").Name("Announcements API")
		{
			announcements.Get("/", listAnnouncements)
			announcements.Get("/latest", getLatestAnnouncement)
			announcements.Post("/:announcementId/read", readAnnouncement)
		}

		clients := api.Group("/clients").Name("Clients API")
		{
			clients.Post("/search", searchClients)
			clients.Get("/autocomplete", autocompleteClients)
		}
	}
}

// errorFor translates the service failure taxonomy into response codes.
func errorFor(err error) *fiber.Error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrClientNotFound),
		errors.Is(err, services.ErrAmbiguousClient),
		errors.Is(err, services.ErrPhotoLimitExceeded):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, services.ErrInvalidSubmission):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, err.Error())
	}
}
