package model

import "github.com/google/uuid"

// StockLogType tags an adjustment as a restock (IN) or a reduction (OUT).
type StockLogType string

const (
	StockIn  StockLogType = "IN"
	StockOut StockLogType = "OUT"
)

// ApprovalStatus is the lifecycle of a stock adjustment or procurement.
// APPROVED and REJECTED are terminal.
type ApprovalStatus string

const (
	StatusPending  ApprovalStatus = "PENDING"
	StatusApproved ApprovalStatus = "APPROVED"
	StatusRejected ApprovalStatus = "REJECTED"
)

// StockLog records an intent to change a product's stock. Stock is only
// ever mutated by applying an approved log; an APPROVED log has already
// had its quantity applied, a PENDING one has not.
type StockLog struct {
	BaseModel
	UserID    uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User      *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	ProductID uuid.UUID `gorm:"type:uuid;not null;index" json:"product_id" validate:"uuid_required"`
	Product   *Product  `gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE" json:"product,omitempty" validate:"-"`

	Type     StockLogType `gorm:"type:varchar(10);not null" json:"type" validate:"required,oneof=IN OUT"`
	Quantity int          `gorm:"not null" json:"quantity" validate:"required,gt=0"`
	Reason   string       `gorm:"type:varchar(255);not null" json:"reason" validate:"required"`
	Notes    *string      `gorm:"type:text" json:"notes,omitempty"`

	Status          ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	ApprovedBy      *uuid.UUID     `gorm:"type:uuid" json:"approved_by,omitempty"`
	RejectionReason *string        `gorm:"type:varchar(255)" json:"rejection_reason,omitempty"`
	RejectedBy      *uuid.UUID     `gorm:"type:uuid" json:"rejected_by,omitempty"`
}

// Delta is the signed stock change this log applies once approved.
func (l *StockLog) Delta() int {
	switch l.Type {
	case StockIn:
		return l.Quantity
	case StockOut:
		return -l.Quantity
	}
	return 0
}
