package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/samber/lo"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func adminCreateAnnouncement(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}
	user := c.Locals("user").(models.Account)

	var data struct {
		Title                  string `json:"title" validate:"required,max=200"`
		Content                string `json:"content" validate:"required"`
		RequiresAcknowledgment bool   `json:"requires_acknowledgment"`
		TargetAudience         string `json:"target_audience"`
		RecipientIDs           []uint `json:"recipient_ids"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	announcement := models.Announcement{
		Title:                  data.Title,
		Content:                data.Content,
		RequiresAcknowledgment: data.RequiresAcknowledgment,
		TargetAudience:         data.TargetAudience,
		Recipients: lo.Map(data.RecipientIDs, func(id uint, index int) models.Account {
			return models.Account{BaseModel: models.BaseModel{ID: id}}
		}),
	}

	announcement, err := services.NewAnnouncement(announcement, user)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(announcement)
}
