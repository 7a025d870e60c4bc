package handler

import (
	"github.com/shinerking/nexusflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type SettingsHandler struct {
	settings  service.SettingsService
	dashboard service.DashboardService
}

func NewSettingsHandler(settings service.SettingsService, dashboard service.DashboardService) *SettingsHandler {
	return &SettingsHandler{settings: settings, dashboard: dashboard}
}

func (h *SettingsHandler) UpdateSettings(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.UpdateSettingsRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.settings.UpdateSettings(a, &req); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Settings updated"})
}

func (h *SettingsHandler) GetDashboardStats(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	stats, err := h.dashboard.Stats(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(stats)
}
