package handler

import (
	"github.com/shinerking/nexusflow/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type ApprovalHandler struct {
	service service.ApprovalService
}

func NewApprovalHandler(s service.ApprovalService) *ApprovalHandler {
	return &ApprovalHandler{service: s}
}

func (h *ApprovalHandler) GetPendingApprovals(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	pending, err := h.service.PendingApprovals(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(pending)
}

func (h *ApprovalHandler) GetPendingCount(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	count, err := h.service.PendingCount(a)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"count": count})
}

type processApprovalRequest struct {
	ItemType        service.ApprovalItemType `json:"item_type"`
	ItemID          uuid.UUID                `json:"item_id"`
	Action          service.ApprovalAction   `json:"action"`
	RejectionReason string                   `json:"rejection_reason"`
}

func (h *ApprovalHandler) ProcessApproval(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req processApprovalRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	if err := h.service.ProcessApproval(a, req.ItemType, req.ItemID, req.Action, req.RejectionReason); err != nil {
		return fail(c, err)
	}
	msg := "Item approved successfully"
	if req.Action == service.ActionReject {
		msg = "Item rejected"
	}
	return c.JSON(fiber.Map{"message": msg})
}

func (h *ApprovalHandler) ProcessBulkApproval(c *fiber.Ctx) error {
	a, err := actor(c)
	if err != nil {
		return err
	}
	var req struct {
		Items           []service.BulkApprovalItem `json:"items"`
		Action          service.ApprovalAction     `json:"action"`
		RejectionReason string                     `json:"rejection_reason"`
	}
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	result, err := h.service.ProcessBulkApproval(a, req.Items, req.Action, req.RejectionReason)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(result)
}
