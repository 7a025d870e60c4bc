package handler

import (
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/service"

	"github.com/gofiber/fiber/v2"
)

type ProcurementHandler struct {
	service service.ProcurementService
}

func NewProcurementHandler(s service.ProcurementService) *ProcurementHandler {
	return &ProcurementHandler{service: s}
}

func (h *ProcurementHandler) Create(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req service.CreateProcurementRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	p, err := h.service.Create(a, &req)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(201).JSON(fiber.Map{"message": "Procurement request created", "data": p})
}

func (h *ProcurementHandler) UpdateStatus(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid procurement ID"})
	}
	var req struct {
		Status model.ApprovalStatus `json:"status"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	p, err := h.service.UpdateStatus(a, id, req.Status)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Status updated", "data": p})
}

func (h *ProcurementHandler) List(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	list, err := h.service.List(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(list)
}

func (h *ProcurementHandler) Delete(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	id, err := parseUUIDParam(c, "id")
	if err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid procurement ID"})
	}
	if err := h.service.Delete(a, id); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"message": "Procurement request deleted"})
}
