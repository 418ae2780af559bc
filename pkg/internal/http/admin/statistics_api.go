package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func adminRebuildStatistics(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	go services.DoRebuildTaskStatistics()

	return c.SendStatus(fiber.StatusOK)
}
