package model

// Organization is the root tenant. Every other entity belongs to one,
// directly or through its product.
type Organization struct {
	BaseModel
	Name string `gorm:"type:varchar(255);not null" json:"name" validate:"required"`
	Slug string `gorm:"type:varchar(100);uniqueIndex;not null" json:"slug" validate:"required"`
}
