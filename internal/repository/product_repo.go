package repository

import (
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProductRepository interface {
	Create(product *model.Product) error
	CreateBatch(products []model.Product) error
	FindByID(id uuid.UUID) (*model.Product, error)
	FindByOrg(orgID uuid.UUID) ([]model.Product, error)
	FindPendingByOrg(orgID uuid.UUID) ([]model.Product, error)
	CountPendingByOrg(orgID uuid.UUID) (int64, error)
	CountByOrg(orgID uuid.UUID) (int64, error)
	CountLowStockByOrg(orgID uuid.UUID, threshold int) (int64, error)
	UpdateDetails(id uuid.UUID, name, category string, price *float64) error
	// MarkApproved flips PENDING -> APPROVED. Returns false when the
	// product was not PENDING (already processed or missing).
	MarkApproved(id uuid.UUID) (bool, error)
	// ApplyStockDelta changes stock by delta only when the result stays
	// non-negative, in a single conditional UPDATE. Returns false when
	// the guard rejected the change.
	ApplyStockDelta(id uuid.UUID, delta int) (bool, error)
	Delete(id uuid.UUID) error
	DeleteByOrg(orgID uuid.UUID) error
}

type productRepo struct {
	db *gorm.DB
}

func NewProductRepo(db *gorm.DB) ProductRepository {
	return &productRepo{db}
}

func (r *productRepo) Create(product *model.Product) error {
	return r.db.Create(product).Error
}

func (r *productRepo) CreateBatch(products []model.Product) error {
	if len(products) == 0 {
		return nil
	}
	return r.db.Create(&products).Error
}

func (r *productRepo) FindByID(id uuid.UUID) (*model.Product, error) {
	var product model.Product
	err := r.db.First(&product, "id = ?", id).Error
	return &product, err
}

func (r *productRepo) FindByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.Where("organization_id = ?", orgID).Order("created_at DESC").Find(&products).Error
	return products, err
}

func (r *productRepo) FindPendingByOrg(orgID uuid.UUID) ([]model.Product, error) {
	var products []model.Product
	err := r.db.
		Where("organization_id = ? AND status = ?", orgID, model.ProductPending).
		Order("created_at DESC").
		Find(&products).Error
	return products, err
}

func (r *productRepo) CountPendingByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("organization_id = ? AND status = ?", orgID, model.ProductPending).
		Count(&count).Error
	return count, err
}

func (r *productRepo) CountByOrg(orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).Where("organization_id = ?", orgID).Count(&count).Error
	return count, err
}

func (r *productRepo) CountLowStockByOrg(orgID uuid.UUID, threshold int) (int64, error) {
	var count int64
	err := r.db.Model(&model.Product{}).
		Where("organization_id = ? AND stock < ?", orgID, threshold).
		Count(&count).Error
	return count, err
}

// UpdateDetails deliberately excludes stock: only approved stock logs
// may change it after creation.
func (r *productRepo) UpdateDetails(id uuid.UUID, name, category string, price *float64) error {
	return r.db.Model(&model.Product{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":     name,
			"category": category,
			"price":    price,
		}).Error
}

func (r *productRepo) MarkApproved(id uuid.UUID) (bool, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND status = ?", id, model.ProductPending).
		Update("status", model.ProductApproved)
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) ApplyStockDelta(id uuid.UUID, delta int) (bool, error) {
	res := r.db.Model(&model.Product{}).
		Where("id = ? AND stock + ? >= 0", id, delta).
		Update("stock", gorm.Expr("stock + ?", delta))
	return res.RowsAffected > 0, res.Error
}

func (r *productRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "id = ?", id).Error
}

func (r *productRepo) DeleteByOrg(orgID uuid.UUID) error {
	return r.db.Delete(&model.Product{}, "organization_id = ?", orgID).Error
}
