package admin

import "github.com/gofiber/fiber/v2"

func MapControllers(app *fiber.App, baseURL string) {
	admin := app.Group(baseURL).Name("Admin API")
	{
		admin.Post("/accounts", adminCreateAccount)

		clients := admin.Group("/clients").Name("Clients Admin")
		{
			clients.Get("/", adminListClients)
			clients.Get("/groups", adminListClientGroups)
			clients.Post("/", adminCreateClient)
			clients.Put("/:clientId", adminEditClient)
			clients.Delete("/:clientId", adminDeleteClient)
		}

		tasks := admin.Group("/tasks").Name("Tasks Admin")
		{
			tasks.Post("/", adminCreateTask)
			tasks.Put("/:taskId", adminEditTask)
			tasks.Delete("/:taskId", adminDeleteTask)
			tasks.Post("/:taskId/send", adminSendTask)
			tasks.Post("/:taskId/rework", adminReworkTask)
			tasks.Get("/:taskId/export", adminExportTaskAnswers)
		}

		admin.Post("/announcements", adminCreateAnnouncement)
		admin.Post("/statistics/rebuild", adminRebuildStatistics)
	}
}
