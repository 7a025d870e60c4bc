package repository

import (
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProcurementRepository interface {
	Create(p *model.Procurement) error
	FindByID(id uuid.UUID) (*model.Procurement, error)
	FindByOrg(orgID uuid.UUID) ([]model.Procurement, error)
	CountPendingByOrg(orgID uuid.UUID) (int64, error)
	// MarkStatus flips PENDING to the given terminal status. Returns
	// false when the request had already been processed.
	MarkStatus(id uuid.UUID, status model.ApprovalStatus) (bool, error)
	Delete(id uuid.UUID) error
	DeleteByOrg(orgID uuid.UUID) error
}

type procurementRepo struct {
	db *gorm.DB
}

func NewProcurementRepo(db *gorm.DB) ProcurementRepository {
	return &procurementRepo{db}
}

func (r *procurementRepo) Create(p *model.Procurement) error {
	return r.db.Create(p).Error
}

func (r *procurementRepo) FindByID(id uuid.UUID) (*model.Procurement, error) {
	var p model.Procurement
	err := r.db.First(&p, "id = ?", id).Error
	return &p, err
}

func (r *procurementRepo) FindByOrg(orgID uuid.UUID) ([]model.Procurement, error) {
	var list []model.Procurement
	err := r.db.Where("organization_id = ?", orgID).Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *procurementRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Procurement{}).
		Where("organization_id = ? AND status = ?", orgID, model.StatusPending).
		Count(&count).Error
	return count, err
}

func (r *procurementRepo) MarkStatus(id uuid.UUID, status model.ApprovalStatus) (bool, error) {
	res := r.db.Model(&model.Procurement{}).
		Where("id = ? AND status = ?", id, model.StatusPending).
		Update("status", status)
	return res.RowsAffected > 0, res.Error
}

func (r *procurementRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Procurement{}, "id = ?", id).Error
}

func (r *procurementRepo) DeleteByOrg(orgID uuid.UUID) error {
	return r.db.Delete(&model.Procurement{}, "organization_id = ?", orgID).Error
}
