package admin

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/veles-crm/fieldwork/pkg/internal/http/exts"
	"github.com/veles-crm/fieldwork/pkg/internal/models"
	"github.com/veles-crm/fieldwork/pkg/internal/services"
)

func errorFor(err error) *fiber.Error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, services.ErrPermissionDenied):
		return fiber.NewError(fiber.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrInvalidSubmission):
		return fiber.NewError(fiber.StatusUnprocessableEntity, err.Error())
	default:
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	}
}

type clientRequest struct {
	Name                string  `json:"name" validate:"required"`
	Address             *string `json:"address"`
	TradingPointName    *string `json:"trading_point_name"`
	TradingPointAddress *string `json:"trading_point_address"`
	EmployeeID          *uint   `json:"employee_id"`
}

func adminListClients(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	take := c.QueryInt("take", 50)
	offset := c.QueryInt("offset", 0)

	clients, err := services.ListClients(take, offset)
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(clients)
}

func adminListClientGroups(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	groups, err := services.ListClientGroups()
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(groups)
}

func adminCreateClient(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	var data clientRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	client, err := services.NewClient(models.Client{
		Name:                data.Name,
		Address:             data.Address,
		TradingPointName:    data.TradingPointName,
		TradingPointAddress: data.TradingPointAddress,
		EmployeeID:          data.EmployeeID,
	})
	if err != nil {
		return errorFor(err)
	}

	return c.JSON(client)
}

func adminEditClient(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	clientId, _ := c.ParamsInt("clientId")

	var data clientRequest
	if err := exts.BindAndValidate(c, &data); err != nil {
		return err
	}

	client, err := services.GetClient(uint(clientId))
	if err != nil {
		return errorFor(err)
	}

	client.Name = data.Name
	client.Address = data.Address
	client.TradingPointName = data.TradingPointName
	client.TradingPointAddress = data.TradingPointAddress
	client.EmployeeID = data.EmployeeID

	if client, err = services.EditClient(client); err != nil {
		return errorFor(err)
	}

	return c.JSON(client)
}

func adminDeleteClient(c *fiber.Ctx) error {
	if err := exts.EnsureModerator(c); err != nil {
		return err
	}

	clientId, _ := c.ParamsInt("clientId")

	client, err := services.GetClient(uint(clientId))
	if err != nil {
		return errorFor(err)
	}

	if err := services.DeleteClient(client); err != nil {
		return errorFor(err)
	}

	return c.SendStatus(fiber.StatusOK)
}
