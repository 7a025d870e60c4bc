package service

import (
	"time"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/mailer"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/internal/ws"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type StockService interface {
	CreateAdjustment(actor model.Actor, req *CreateAdjustmentRequest) (*AdjustmentResult, error)
	ApproveAdjustment(actor model.Actor, logID uuid.UUID) (*model.StockLog, error)
	RejectAdjustment(actor model.Actor, logID uuid.UUID, reason string) (*model.StockLog, error)
	ListLogs(actor model.Actor) ([]model.StockLog, error)
	StaffHistory(actor model.Actor) (*StaffHistory, error)
}

type CreateAdjustmentRequest struct {
	ProductID uuid.UUID          `json:"product_id" validate:"uuid_required"`
	Type      model.StockLogType `json:"type" validate:"required,oneof=IN OUT"`
	Quantity  int                `json:"quantity" validate:"required,gt=0"`
	Reason    string             `json:"reason" validate:"required"`
	Notes     *string            `json:"notes"`
}

// AdjustmentResult tells the caller whether the change already applied
// (manager auto-approve) or is awaiting review (staff submission).
type AdjustmentResult struct {
	Log     *model.StockLog `json:"log"`
	Applied bool            `json:"applied"`
	Message string          `json:"message"`
}

// StaffHistory is the submitter's own log history with weekly
// performance numbers.
type StaffHistory struct {
	Items          []model.StockLog `json:"items"`
	TotalRestocked int              `json:"total_restocked"`
	ApprovalRate   int              `json:"approval_rate"`
	PendingTasks   int              `json:"pending_tasks"`
}

type stockService struct {
	repos  repository.Repos
	scope  repository.TxScope
	sender mailer.Sender
	hub    *ws.Hub
	log    *zap.SugaredLogger
}

func NewStockService(repos repository.Repos, scope repository.TxScope, sender mailer.Sender, hub *ws.Hub, log *zap.SugaredLogger) StockService {
	return &stockService{repos: repos, scope: scope, sender: sender, hub: hub, log: log}
}

// CreateAdjustment records intent to change stock. STAFF submissions
// land PENDING with stock untouched; MANAGER/ADMIN submissions are
// approved and applied in the same transaction.
func (s *stockService) CreateAdjustment(actor model.Actor, req *CreateAdjustmentRequest) (*AdjustmentResult, error) {
	if err := requireAction(actor, model.ActionAdjustStock); err != nil {
		return nil, err
	}
	if err := validateStruct(req); err != nil {
		return nil, err
	}

	product, err := s.repos.Products.FindByID(req.ProductID)
	if err != nil {
		return nil, notFoundOr(err, "Product")
	}
	if product.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("Product not found")
	}

	auto := model.IsAdminOrManager(actor.Role)

	entry := &model.StockLog{
		UserID:    actor.ID,
		ProductID: req.ProductID,
		Type:      req.Type,
		Quantity:  req.Quantity,
		Reason:    req.Reason,
		Notes:     req.Notes,
		Status:    model.StatusPending,
	}
	if auto {
		entry.Status = model.StatusApproved
		approver := actor.ID
		entry.ApprovedBy = &approver
	}

	err = s.scope.Atomic(func(r repository.Repos) error {
		if err := r.StockLogs.Create(entry); err != nil {
			return apperr.Internal("failed to record stock adjustment", err)
		}
		if !auto {
			return nil
		}
		applied, err := r.Products.ApplyStockDelta(req.ProductID, entry.Delta())
		if err != nil {
			return apperr.Internal("failed to update stock", err)
		}
		if !applied {
			return apperr.Conflict("Insufficient stock. Current stock: %d, requested: %d", product.Stock, req.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if auto {
		s.hub.Publish(ws.Event{
			Type:    "stock_update",
			Action:  "adjustment_applied",
			Payload: entry,
			Message: actor.Name + " adjusted stock of '" + product.Name + "'",
		})
		return &AdjustmentResult{Log: entry, Applied: true, Message: appliedMessage(req.Type)}, nil
	}

	s.notifyManagers(actor, product, entry)
	s.hub.Publish(ws.Event{
		Type:    "approval_queue",
		Action:  "adjustment_submitted",
		Payload: entry,
		Message: actor.Name + " submitted a stock adjustment for '" + product.Name + "'",
	})
	return &AdjustmentResult{Log: entry, Applied: false, Message: pendingMessage(req.Type)}, nil
}

// ApproveAdjustment flips a PENDING log to APPROVED and applies its
// quantity to the product, both inside one transaction. The status flip
// and the stock change are conditional updates, so a racing approval
// either loses the flip or rolls back on the stock guard.
func (s *stockService) ApproveAdjustment(actor model.Actor, logID uuid.UUID) (*model.StockLog, error) {
	if err := requireAction(actor, model.ActionApproveStockAdjustment); err != nil {
		return nil, err
	}

	entry, err := s.repos.StockLogs.FindByID(logID)
	if err != nil {
		return nil, notFoundOr(err, "Stock adjustment record")
	}
	if entry.Product == nil || entry.Product.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("Stock adjustment record not found")
	}
	if entry.Status != model.StatusPending {
		return nil, apperr.Conflict("This adjustment has already been processed")
	}
	if entry.Type == model.StockOut && entry.Product.Stock < entry.Quantity {
		return nil, apperr.Conflict("Insufficient stock. Current stock: %d, requested: %d", entry.Product.Stock, entry.Quantity)
	}

	err = s.scope.Atomic(func(r repository.Repos) error {
		flipped, err := r.StockLogs.MarkApproved(logID, actor.ID)
		if err != nil {
			return apperr.Internal("failed to approve adjustment", err)
		}
		if !flipped {
			return apperr.Conflict("This adjustment has already been processed")
		}
		applied, err := r.Products.ApplyStockDelta(entry.ProductID, entry.Delta())
		if err != nil {
			return apperr.Internal("failed to update stock", err)
		}
		if !applied {
			return apperr.Conflict("Insufficient stock. Current stock: %d, requested: %d", entry.Product.Stock, entry.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	entry.Status = model.StatusApproved
	approver := actor.ID
	entry.ApprovedBy = &approver

	if entry.User != nil {
		subject, body := mailer.StockApprovedHTML(entry.Product.Name, entry.Quantity, string(entry.Type))
		dispatchMail(s.log, s.sender, []string{entry.User.Email}, subject, body)
	}
	s.hub.Publish(ws.Event{
		Type:    "approval_queue",
		Action:  "adjustment_approved",
		Payload: entry,
		Message: "Stock adjustment for '" + entry.Product.Name + "' approved",
	})
	return entry, nil
}

// RejectAdjustment records a terminal rejection. Stock is never
// touched.
func (s *stockService) RejectAdjustment(actor model.Actor, logID uuid.UUID, reason string) (*model.StockLog, error) {
	if err := requireAction(actor, model.ActionApproveStockAdjustment); err != nil {
		return nil, err
	}
	if reason == "" {
		return nil, apperr.Validation("Rejection reason is required")
	}

	entry, err := s.repos.StockLogs.FindByID(logID)
	if err != nil {
		return nil, notFoundOr(err, "Stock adjustment record")
	}
	if entry.Product == nil || entry.Product.OrganizationID != actor.OrganizationID {
		return nil, apperr.NotFound("Stock adjustment record not found")
	}
	if entry.Status != model.StatusPending {
		return nil, apperr.Conflict("This adjustment has already been processed")
	}

	flipped, err := s.repos.StockLogs.MarkRejected(logID, actor.ID, reason)
	if err != nil {
		return nil, apperr.Internal("failed to reject adjustment", err)
	}
	if !flipped {
		return nil, apperr.Conflict("This adjustment has already been processed")
	}

	entry.Status = model.StatusRejected
	entry.RejectionReason = &reason
	rejecter := actor.ID
	entry.RejectedBy = &rejecter

	s.hub.Publish(ws.Event{
		Type:    "approval_queue",
		Action:  "adjustment_rejected",
		Payload: entry,
	})
	return entry, nil
}

func (s *stockService) ListLogs(actor model.Actor) ([]model.StockLog, error) {
	if err := requireAction(actor, model.ActionViewStockLogs); err != nil {
		return nil, err
	}
	logs, err := s.repos.StockLogs.FindByOrg(actor.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to list stock logs", err)
	}
	return logs, nil
}

// StaffHistory returns the actor's own submissions plus stats over the
// last 7 days.
func (s *stockService) StaffHistory(actor model.Actor) (*StaffHistory, error) {
	if err := requireAction(actor, model.ActionViewStockLogs); err != nil {
		return nil, err
	}
	logs, err := s.repos.StockLogs.FindByUser(actor.ID)
	if err != nil {
		return nil, apperr.Internal("failed to load history", err)
	}

	weekAgo := time.Now().AddDate(0, 0, -7)
	history := &StaffHistory{Items: logs}
	var weekly, weeklyApproved int
	for _, l := range logs {
		if l.Status == model.StatusPending {
			history.PendingTasks++
		}
		if l.CreatedAt.Before(weekAgo) {
			continue
		}
		weekly++
		if l.Status == model.StatusApproved {
			weeklyApproved++
			if l.Type == model.StockIn {
				history.TotalRestocked += l.Quantity
			}
		}
	}
	if weekly > 0 {
		history.ApprovalRate = (weeklyApproved*100 + weekly/2) / weekly
	}
	return history, nil
}

func (s *stockService) notifyManagers(actor model.Actor, product *model.Product, entry *model.StockLog) {
	managers, err := s.repos.Users.FindNotifiableManagers(actor.OrganizationID)
	if err != nil {
		s.log.Warnw("failed to look up managers for notification", "err", err)
		return
	}
	if len(managers) == 0 {
		return
	}
	emails := make([]string, len(managers))
	for i, m := range managers {
		emails[i] = m.Email
	}
	notes := ""
	if entry.Notes != nil {
		notes = *entry.Notes
	}
	subject, body := mailer.StockRequestHTML(actor.Name, product.Name, string(entry.Type), entry.Quantity, entry.Reason, notes)
	dispatchMail(s.log, s.sender, emails, subject, body)
}

func appliedMessage(t model.StockLogType) string {
	if t == model.StockIn {
		return "Stock added successfully"
	}
	return "Stock reduced successfully"
}

func pendingMessage(t model.StockLogType) string {
	if t == model.StockIn {
		return "Restock request sent to a manager for review"
	}
	return "Stock reduction report sent to a manager for review"
}
