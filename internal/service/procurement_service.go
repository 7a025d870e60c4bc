package service

import (
	"encoding/json"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/mailer"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type ProcurementService interface {
	Create(actor model.Actor, req *CreateProcurementRequest) (*model.Procurement, error)
	UpdateStatus(actor model.Actor, id uuid.UUID, status model.ApprovalStatus) (*model.Procurement, error)
	List(actor model.Actor) ([]model.Procurement, error)
	Delete(actor model.Actor, id uuid.UUID) error
}

type CreateProcurementRequest struct {
	Title       string  `json:"title" validate:"required"`
	TotalAmount float64 `json:"total_amount" validate:"gte=0"`
	Priority    string  `json:"priority" validate:"omitempty,oneof=LOW MEDIUM HIGH"`
	Category    string  `json:"category"`
	Description *string `json:"description"`
}

type procurementService struct {
	repos  repository.Repos
	sender mailer.Sender
	log    *zap.SugaredLogger
}

func NewProcurementService(repos repository.Repos, sender mailer.Sender, log *zap.SugaredLogger) ProcurementService {
	return &procurementService{repos: repos, sender: sender, log: log}
}

// Create registers a purchase request. Unlike products and stock
// adjustments there is no auto-approve shortcut: every request starts
// PENDING regardless of who submits it.
func (s *procurementService) Create(actor model.Actor, req *CreateProcurementRequest) (*model.Procurement, error) {
	if err := requireAction(actor, model.ActionCreateProcurement); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = "MEDIUM"
	}
	analysis, _ := json.Marshal(map[string]string{
		"priority": priority,
		"category": req.Category,
	})

	p := &model.Procurement{
		Title:          req.Title,
		Description:    req.Description,
		TotalAmount:    req.TotalAmount,
		Status:         model.StatusPending,
		AIAnalysis:     model.JSONB(analysis),
		OrganizationID: actor.OrganizationID,
	}
	if err := s.repos.Procurements.Create(p); err != nil {
		return nil, apperr.Internal("failed to create procurement request", err)
	}

	description := ""
	if req.Description != nil {
		description = *req.Description
	}
	subject, body := mailer.ProcurementRequestHTML(req.Title, req.TotalAmount, priority, description)
	dispatchMail(s.log, s.sender, []string{mailer.DefaultRecipient()}, subject, body)

	return p, nil
}

// UpdateStatus moves a PENDING request to APPROVED or REJECTED. Pure
// status change plus a best-effort notification; stock is never
// involved.
func (s *procurementService) UpdateStatus(actor model.Actor, id uuid.UUID, status model.ApprovalStatus) (*model.Procurement, error) {
	if err := requireAction(actor, model.ActionApproveProcurement); err != nil {
		return nil, err
	}
	if status != model.StatusApproved && status != model.StatusRejected {
		return nil, apperr.Validation("Status must be APPROVED or REJECTED")
	}

	p, err := s.findInOrg(actor, id)
	if err != nil {
		return nil, err
	}
	if p.Status != model.StatusPending {
		return nil, apperr.Conflict("This request has already been processed")
	}

	flipped, err := s.repos.Procurements.MarkStatus(id, status)
	if err != nil {
		return nil, apperr.Internal("failed to update procurement status", err)
	}
	if !flipped {
		return nil, apperr.Conflict("This request has already been processed")
	}
	p.Status = status

	if status == model.StatusApproved {
		subject, body := mailer.ProcurementApprovedHTML(p.Title, p.TotalAmount)
		dispatchMail(s.log, s.sender, []string{mailer.DefaultRecipient()}, subject, body)
	}
	return p, nil
}

func (s *procurementService) List(actor model.Actor) ([]model.Procurement, error) {
	list, err := s.repos.Procurements.FindByOrg(actor.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to list procurement requests", err)
	}
	return list, nil
}

func (s *procurementService) Delete(actor model.Actor, id uuid.UUID) error {
	if err := requireAction(actor, model.ActionDeleteProcurement); err != nil {
		return err
	}
	if _, err := s.findInOrg(actor, id); err != nil {
		return err
	}
	if err := s.repos.Procurements.Delete(id); err != nil {
		return apperr.Internal("failed to delete procurement request", err)
	}
	return nil
}

func (s *procurementService) findInOrg(actor model.Actor, id uuid.UUID) (*model.Procurement, error) {
	p, err := s.repos.Procurements.FindByID(id)
	if err != nil {
		return nil, notFoundOr(err, "Procurement request")
	}
	if p.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("Procurement request not found")
	}
	return p, nil
}
