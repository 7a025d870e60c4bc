package service

import (
	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
)

// lowStockThreshold marks products that need restocking soon.
const lowStockThreshold = 10

type DashboardStats struct {
	TotalProducts       int64 `json:"total_products"`
	LowStockCount       int64 `json:"low_stock_count"`
	PendingApprovals    int64 `json:"pending_approvals"`
	PendingProcurements int64 `json:"pending_procurements"`
}

type DashboardService interface {
	Stats(actor model.Actor) (*DashboardStats, error)
}

type dashboardService struct {
	repos repository.Repos
}

func NewDashboardService(repos repository.Repos) DashboardService {
	return &dashboardService{repos: repos}
}

func (s *dashboardService) Stats(actor model.Actor) (*DashboardStats, error) {
	orgID := actor.OrganizationID
	stats := &DashboardStats{}
	var err error

	if stats.TotalProducts, err = s.repos.Products.CountByOrg(orgID); err != nil {
		return nil, apperr.Internal("failed to load dashboard stats", err)
	}
	if stats.LowStockCount, err = s.repos.Products.CountLowStockByOrg(orgID, lowStockThreshold); err != nil {
		return nil, apperr.Internal("failed to load dashboard stats", err)
	}

	pendingProducts, err := s.repos.Products.CountPendingByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("failed to load dashboard stats", err)
	}
	pendingLogs, err := s.repos.StockLogs.CountPendingByOrg(orgID)
	if err != nil {
		return nil, apperr.Internal("failed to load dashboard stats", err)
	}
	stats.PendingApprovals = pendingProducts + pendingLogs

	if stats.PendingProcurements, err = s.repos.Procurements.CountPendingByOrg(orgID); err != nil {
		return nil, apperr.Internal("failed to load dashboard stats", err)
	}
	return stats, nil
}
