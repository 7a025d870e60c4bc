package repository

import (
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type OrganizationRepository interface {
	Create(org *model.Organization) error
	First() (*model.Organization, error)
	FindByID(id uuid.UUID) (*model.Organization, error)
	FindBySlug(slug string) (*model.Organization, error)
	UpdateName(id uuid.UUID, name string) error
}

type organizationRepo struct {
	db *gorm.DB
}

func NewOrganizationRepo(db *gorm.DB) OrganizationRepository {
	return &organizationRepo{db}
}

func (r *organizationRepo) Create(org *model.Organization) error {
	return r.db.Create(org).Error
}

func (r *organizationRepo) First() (*model.Organization, error) {
	var org model.Organization
	err := r.db.Order("created_at ASC").First(&org).Error
	return &org, err
}

func (r *organizationRepo) FindByID(id uuid.UUID) (*model.Organization, error) {
	var org model.Organization
	err := r.db.First(&org, "id = ?", id).Error
	return &org, err
}

func (r *organizationRepo) FindBySlug(slug string) (*model.Organization, error) {
	var org model.Organization
	err := r.db.First(&org, "slug = ?", slug).Error
	return &org, err
}

func (r *organizationRepo) UpdateName(id uuid.UUID, name string) error {
	return r.db.Model(&model.Organization{}).Where("id = ?", id).Update("name", name).Error
}
