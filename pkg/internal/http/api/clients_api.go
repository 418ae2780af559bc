package api

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func searchClients(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	var data struct {
		Query string `json:"query" validate:"required"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	probe := strings.TrimSpace(data.Query)
	if len([]rune(probe)) < 2 {
		return fiber.NewError(fiber.StatusBadRequest, "the search query needs at least two characters")
	}

	clients, err := services.SearchClients(probe)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	out := fiber.Map{
		"clients": lo.Map(clients, func(item models.Client, index int) fiber.Map {
			return fiber.Map{"id": item.ID, "name": item.Name}
		}),
	}
	if len(clients) == 20 {
		out["message"] = "Найдено 20 совпадений. Уточните запрос для более точного результата."
	}

	return c.JSON(out)
}

func autocompleteClients(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}

	probe := strings.TrimSpace(c.Query("q"))
	if len(probe) < 1 {
		return c.JSON(fiber.Map{"clients": []any{}})
	}

	clients, err := services.SearchClients(probe)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(fiber.Map{
		"clients": lo.Map(clients, func(item models.Client, index int) fiber.Map {
			return fiber.Map{"id": item.ID, "name": item.Name}
		}),
	})
}
