package exts

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
)

func EnsureAuthenticated(c *fiber.Ctx) error {
	if _, ok := c.Locals("user").(models.Account); !ok {
		return fiber.NewError(fiber.StatusUnauthorized, "you need to be authenticated to do this")
	}

	return nil
}

func EnsureModerator(c *fiber.Ctx) error {
	if err := EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)
	if !user.IsModerator() {
		return fiber.NewError(fiber.StatusForbidden, "you need to be a moderator to do this")
	}

	return nil
}
