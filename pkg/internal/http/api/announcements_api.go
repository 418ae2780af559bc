package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func listAnnouncements(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	announcements, err := services.ListVisibleAnnouncements(user)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(announcements)
}

func getLatestAnnouncement(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	announcement, err := services.GetLatestAnnouncement(user)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(announcement)
}

func readAnnouncement(c *fiber.Ctx) error {
	if err := exts.EnsureAuthenticated(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	announcementId, _ := c.ParamsInt("announcementId")

	var data struct {
		Acknowledge bool `json:"acknowledge"`
	}

	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	announcement, err := services.GetAnnouncement(uint(announcementId))
	if err != nil {
		return errorFor(err)
	}
	if !announcement.CanBeSeenBy(user) {
		return fiber.NewError(fiber.StatusNotFound, "announcement not found or unavailable")
	}

	status, err := services.MarkAnnouncementRead(announcement, user, data.Acknowledge)
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	return c.JSON(status)
}
