package model

import "github.com/google/uuid"

// Procurement is a purchase request with its own approve/reject flow.
// It is always created PENDING regardless of the creator's role and has
// no stock effect when approved.
type Procurement struct {
	BaseModel
	Title       string  `gorm:"type:varchar(255);not null" json:"title" validate:"required"`
	Description *string `gorm:"type:text" json:"description,omitempty"`
	TotalAmount float64 `gorm:"type:numeric(14,2);not null;default:0" json:"total_amount" validate:"gte=0"`

	Status ApprovalStatus `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`

	// AIAnalysis holds opaque drafting metadata (priority, category,
	// model output). Stored as-is, never interpreted by the workflow.
	AIAnalysis JSONB `gorm:"type:jsonb" json:"ai_analysis,omitempty"`

	OrganizationID uuid.UUID     `gorm:"type:uuid;not null;index" json:"organization_id"`
	Organization   *Organization `gorm:"foreignKey:OrganizationID;constraint:OnDelete:CASCADE" json:"organization,omitempty"`
}
