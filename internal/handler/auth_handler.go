package handler

import (
	"github.com/shinerking/nexusflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	service service.AuthService
}

func NewAuthHandler(s service.AuthService) *AuthHandler {
	return &AuthHandler{service: s}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req struct {
		Email string `json:"email"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.Login(req.Email)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}

// Me returns the resolved session identity.
func (h *AuthHandler) Me(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	return c.JSON(a)
}
