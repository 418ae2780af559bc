package admin

import (
	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func adminCreateAccount(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	var data struct {
		Name     string `json:"name" validate:"required,min=3,max=64"`
		Nick     string `json:"nick"`
		Password string `json:"password" validate:"required,min=6"`
		Role     string `json:"role" validate:"required,oneof=EMPLOYEE MODERATOR CLIENT"`
	}
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	account, err := services.NewAccount(data.Name, data.Nick, data.Password, data.Role)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(account)
}
