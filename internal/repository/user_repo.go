package repository

import (
	"github.com/shinerking/nexusflow/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type UserRepository interface {
	Create(user *model.User) error
	FindByID(id uuid.UUID) (*model.User, error)
	FindByEmail(email string) (*model.User, error)
	FindByOrg(orgID uuid.UUID) ([]model.User, error)
	// FindNotifiableManagers returns managers in the org who opted in
	// to email notifications.
	FindNotifiableManagers(orgID uuid.UUID) ([]model.User, error)
	UpdateName(id uuid.UUID, name string) error
}

type userRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) UserRepository {
	return &userRepo{db}
}

func (r *userRepo) Create(user *model.User) error {
	return r.db.Create(user).Error
}

func (r *userRepo) FindByID(id uuid.UUID) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").First(&user, "id = ?", id).Error
	return &user, err
}

func (r *userRepo) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.db.Preload("Organization").First(&user, "email = ?", email).Error
	return &user, err
}

func (r *userRepo) FindByOrg(orgID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.Where("organization_id = ?", orgID).Order("name ASC").Find(&users).Error
	return users, err
}

func (r *userRepo) FindNotifiableManagers(orgID uuid.UUID) ([]model.User, error) {
	var users []model.User
	err := r.db.
		Where("organization_id = ? AND role = ? AND email_notifications = ?", orgID, model.RoleManager, true).
		Find(&users).Error
	return users, err
}

func (r *userRepo) UpdateName(id uuid.UUID, name string) error {
	return r.db.Model(&model.User{}).Where("id = ?", id).Update("name", name).Error
}
