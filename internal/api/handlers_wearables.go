package api

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/lunara/internal/services"
)

func (handler *Handler) ListWearables(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	devices, err := handler.wearables.List(c.UserContext(), profileID)
	if err != nil {
		handler.log.Warn("wearable list failed", "error", err)
		return apiError(c, fiber.StatusInternalServerError, "storage unavailable")
	}
	return c.JSON(fiber.Map{"devices": devices})
}

func (handler *Handler) ConnectWearable(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	device, err := handler.wearables.Connect(c.UserContext(), profileID, c.Params("id"))
	if err != nil {
		return wearableError(c, err)
	}

	title, description := services.WearableConnectedToast(device)
	return c.JSON(fiber.Map{
		"device":      device,
		"title":       translateOr(currentMessages(c), "wearable.connected.title", title),
		"description": localizedToast(c, "wearable.connected.description", description, device.Name),
	})
}

func (handler *Handler) DisconnectWearable(c *fiber.Ctx) error {
	profileID, ok := currentProfileID(c)
	if !ok {
		return apiError(c, fiber.StatusUnauthorized, "unauthorized")
	}

	device, err := handler.wearables.Disconnect(c.UserContext(), profileID, c.Params("id"))
	if err != nil {
		return wearableError(c, err)
	}

	title, description := services.WearableDisconnectedToast(device)
	return c.JSON(fiber.Map{
		"device":      device,
		"title":       translateOr(currentMessages(c), "wearable.disconnected.title", title),
		"description": localizedToast(c, "wearable.disconnected.description", description, device.Name),
	})
}

func localizedToast(c *fiber.Ctx, key string, fallback string, name string) string {
	format := translate(c, key)
	if format == key {
		return fallback
	}
	return fmt.Sprintf(format, name)
}

func wearableError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrDeviceNotFound):
		return apiError(c, fiber.StatusNotFound, "device not found")
	case errors.Is(err, services.ErrStorage):
		return apiError(c, fiber.StatusInternalServerError, "storage unavailable")
	default:
		return apiError(c, fiber.StatusRequestTimeout, "request cancelled")
	}
}
