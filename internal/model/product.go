package model

import "github.com/google/uuid"

// ProductStatus is PENDING until a manager approves the product.
// There is no stored rejected state: rejecting a pending product
// deletes it.
type ProductStatus string

const (
	ProductPending  ProductStatus = "PENDING"
	ProductApproved ProductStatus = "APPROVED"
)

type Product struct {
	BaseModel
	Name     string        `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Category string        `gorm:"type:varchar(100);not null" json:"category" validate:"required"`
	Price    *float64      `gorm:"type:numeric(12,2)" json:"price" validate:"omitempty,gte=0"`
	Stock    int           `gorm:"not null;default:0" json:"stock" validate:"gte=0"`
	Status   ProductStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`

	// Relasi
	StockLogs []StockLog `json:"stock_logs,omitempty"`
}
