package repository

import (
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type StockLogRepository interface {
	Create(log *model.StockLog) error
	FindByID(id uuid.UUID) (*model.StockLog, error)
	FindByOrg(orgID uuid.UUID) ([]model.StockLog, error)
	FindPendingByOrg(orgID uuid.UUID) ([]model.StockLog, error)
	CountPendingByOrg(orgID uuid.UUID) (int64, error)
	FindByUser(userID uuid.UUID) ([]model.StockLog, error)
	// MarkApproved flips PENDING -> APPROVED and records the approver.
	// Returns false when the log had already left PENDING, so a
	// concurrent double approval cannot apply twice.
	MarkApproved(id, approverID uuid.UUID) (bool, error)
	// MarkRejected flips PENDING -> REJECTED with the reason.
	MarkRejected(id, rejecterID uuid.UUID, reason string) (bool, error)
}

type stockLogRepo struct {
	db *gorm.DB
}

func NewStockLogRepo(db *gorm.DB) StockLogRepository {
	return &stockLogRepo{db}
}

func (r *stockLogRepo) Create(log *model.StockLog) error {
	return r.db.Create(log).Error
}

func (r *stockLogRepo) FindByID(id uuid.UUID) (*model.StockLog, error) {
	var log model.StockLog
	err := r.db.Preload("Product").Preload("User").First(&log, "id = ?", id).Error
	return &log, err
}

// FindByOrg scopes through the product: a log belongs to the org its
// product belongs to.
func (r *stockLogRepo) FindByOrg(orgID uuid.UUID) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.
		Joins("JOIN products ON products.id = stock_logs.product_id").
		Where("products.organization_id = ?", orgID).
		Preload("Product").Preload("User").
		Order("stock_logs.created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *stockLogRepo) FindPendingByOrg(orgID uuid.UUID) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.
		Joins("JOIN products ON products.id = stock_logs.product_id").
		Where("stock_logs.status = ? AND products.organization_id = ?", model.StatusPending, orgID).
		Preload("Product").Preload("User").
		Order("stock_logs.created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *stockLogRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.StockLog{}).
		Joins("JOIN products ON products.id = stock_logs.product_id").
		Where("stock_logs.status = ? AND products.organization_id = ?", model.StatusPending, orgID).
		Count(&count).Error
	return count, err
}

func (r *stockLogRepo) FindByUser(userID uuid.UUID) ([]model.StockLog, error) {
	var logs []model.StockLog
	err := r.db.
		Where("user_id = ?", userID).
		Preload("Product").
		Order("created_at DESC").
		Find(&logs).Error
	return logs, err
}

func (r *stockLogRepo) MarkApproved(id, approverID uuid.UUID) (bool, error) {
	res := r.db.Model(&model.StockLog{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":      model.StatusApproved,
			"approved_by": approverID,
		})
	return res.RowsAffected > 0, res.Error
}

func (r *stockLogRepo) MarkRejected(id, rejecterID uuid.UUID, reason string) (bool, error) {
	res := r.db.Model(&model.StockLog{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Updates(map[string]interface{}{
			"status":           model.StatusRejected,
			"rejection_reason": reason,
			"rejected_by":      rejecterID,
		})
	return res.RowsAffected > 0, res.Error
}
