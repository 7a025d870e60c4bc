package service

import (
	"fmt"
	"sort"
	"time"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"

	"github.com/google/uuid"
)

// ApprovalItemType discriminates entries in the merged queue.
type ApprovalItemType string

const (
	ItemProduct         ApprovalItemType = "PRODUCT"
	ItemStockAdjustment ApprovalItemType = "STOCK_ADJUSTMENT"
)

type ApprovalAction string

const (
	ActionApprove ApprovalAction = "APPROVE"
	ActionReject  ApprovalAction = "REJECT"
)

// ApprovalItem is one pending entry, denormalized so the queue renders
// without further lookups.
type ApprovalItem struct {
	ID          uuid.UUID        `json:"id"`
	Type        ApprovalItemType `json:"type"`
	Date        time.Time        `json:"date"`
	ActionType  string           `json:"action_type"`
	StaffID     uuid.UUID        `json:"staff_id"`
	StaffName   string           `json:"staff_name"`
	ProductName string           `json:"product_name"`
	Quantity    int              `json:"quantity"`
	Reason      string           `json:"reason,omitempty"`
	Notes       string           `json:"notes,omitempty"`
}

type PendingApprovals struct {
	Items      []ApprovalItem `json:"items"`
	TotalCount int            `json:"total_count"`
}

type BulkApprovalItem struct {
	ItemType ApprovalItemType `json:"item_type"`
	ItemID   uuid.UUID        `json:"item_id"`
}

// BulkResult reports per-item outcomes; the batch never aborts on a
// single failure.
type BulkResult struct {
	Processed int    `json:"processed"`
	Failed    int    `json:"failed"`
	Message   string `json:"message"`
}

type ApprovalService interface {
	PendingApprovals(actor model.Actor) (*PendingApprovals, error)
	PendingCount(actor model.Actor) (int64, error)
	ProcessApproval(actor model.Actor, itemType ApprovalItemType, itemID uuid.UUID, action ApprovalAction, rejectionReason string) error
	ProcessBulkApproval(actor model.Actor, items []BulkApprovalItem, action ApprovalAction, rejectionReason string) (*BulkResult, error)
}

type approvalService struct {
	repos    repository.Repos
	products ProductService
	stock    StockService
}

func NewApprovalService(repos repository.Repos, products ProductService, stock StockService) ApprovalService {
	return &approvalService{repos: repos, products: products, stock: stock}
}

// PendingApprovals merges pending products and pending stock
// adjustments into one queue, newest first. Each read is a consistent
// snapshot; concurrent submissions simply appear on the next read.
func (s *approvalService) PendingApprovals(actor model.Actor) (*PendingApprovals, error) {
	if err := requireAction(actor, model.ActionAccessApprovals); err != nil {
		return nil, err
	}

	pendingProducts, err := s.repos.Products.FindPendingByOrg(actor.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to load pending products", err)
	}
	pendingLogs, err := s.repos.StockLogs.FindPendingByOrg(actor.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to load pending adjustments", err)
	}

	items := make([]ApprovalItem, 0, len(pendingProducts)+len(pendingLogs))
	for _, p := range pendingProducts {
		items = append(items, ApprovalItem{
			ID:          p.ID,
			Type:        ItemProduct,
			Date:        p.CreatedAt,
			ActionType:  "New Product",
			StaffName:   "System",
			ProductName: p.Name,
			Quantity:    p.Stock,
		})
	}
	for _, l := range pendingLogs {
		item := ApprovalItem{
			ID:         l.ID,
			Type:       ItemStockAdjustment,
			Date:       l.CreatedAt,
			ActionType: "Restock",
			StaffID:    l.UserID,
			StaffName:  "Unknown",
			Quantity:   l.Quantity,
			Reason:     l.Reason,
		}
		if l.Type == model.StockOut {
			item.ActionType = "Stock Reduction"
		}
		if l.User != nil {
			item.StaffName = l.User.Name
		}
		if l.Product != nil {
			item.ProductName = l.Product.Name
		}
		if l.Notes != nil {
			item.Notes = *l.Notes
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Date.After(items[j].Date)
	})

	return &PendingApprovals{Items: items, TotalCount: len(items)}, nil
}

// PendingCount is the lightweight badge counter. Non-approver roles get
// zero rather than an error.
func (s *approvalService) PendingCount(actor model.Actor) (int64, error) {
	if !model.CanPerformAction(actor.Role, model.ActionAccessApprovals) {
		return 0, nil
	}
	productCount, err := s.repos.Products.CountPendingByOrg(actor.OrganizationID)
	if err != nil {
		return 0, apperr.Internal("failed to count pending products", err)
	}
	logCount, err := s.repos.StockLogs.CountPendingByOrg(actor.OrganizationID)
	if err != nil {
		return 0, apperr.Internal("failed to count pending adjustments", err)
	}
	return productCount + logCount, nil
}

// ProcessApproval dispatches a single decision to the owning engine.
func (s *approvalService) ProcessApproval(actor model.Actor, itemType ApprovalItemType, itemID uuid.UUID, action ApprovalAction, rejectionReason string) error {
	if err := requireAction(actor, model.ActionProcessApproval); err != nil {
		return err
	}
	if action != ActionApprove && action != ActionReject {
		return apperr.Validation("Action must be APPROVE or REJECT")
	}
	if action == ActionReject && rejectionReason == "" {
		return apperr.Validation("Rejection reason is required")
	}

	switch itemType {
	case ItemProduct:
		if action == ActionApprove {
			_, err := s.products.Approve(actor, itemID)
			return err
		}
		return s.products.Reject(actor, itemID)
	case ItemStockAdjustment:
		if action == ActionApprove {
			_, err := s.stock.ApproveAdjustment(actor, itemID)
			return err
		}
		_, err := s.stock.RejectAdjustment(actor, itemID, rejectionReason)
		return err
	default:
		return apperr.Validation("Unknown item type: %s", itemType)
	}
}

// ProcessBulkApproval applies the decision item by item. Each item is
// its own atomic unit; one failure does not abort the rest.
func (s *approvalService) ProcessBulkApproval(actor model.Actor, items []BulkApprovalItem, action ApprovalAction, rejectionReason string) (*BulkResult, error) {
	if err := requireAction(actor, model.ActionProcessApproval); err != nil {
		return nil, err
	}
	if action == ActionReject && rejectionReason == "" {
		return nil, apperr.Validation("Rejection reason is required for bulk rejection")
	}

	result := &BulkResult{}
	for _, item := range items {
		if err := s.ProcessApproval(actor, item.ItemType, item.ItemID, action, rejectionReason); err != nil {
			result.Failed++
		} else {
			result.Processed++
		}
	}

	result.Message = fmt.Sprintf("Processed %d items successfully", result.Processed)
	if result.Failed > 0 {
		result.Message += fmt.Sprintf(", %d failed", result.Failed)
	}
	return result, nil
}
