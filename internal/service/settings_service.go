package service

import (
	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
)

type SettingsService interface {
	UpdateSettings(actor model.Actor, req *UpdateSettingsRequest) error
}

type UpdateSettingsRequest struct {
	Name             string `json:"name" validate:"required"`
	OrganizationName string `json:"organization_name"`
}

type settingsService struct {
	repos repository.Repos
}

func NewSettingsService(repos repository.Repos) SettingsService {
	return &settingsService{repos: repos}
}

// UpdateSettings renames the acting user and optionally their
// organization. Role is deliberately not reachable through this path.
func (s *settingsService) UpdateSettings(actor model.Actor, req *UpdateSettingsRequest) error {
	if err := requireAction(actor, model.ActionAccessSettings); err != nil {
		return err
	}
	if err := validateStruct(req); err != nil {
		return err
	}

	if err := s.repos.Users.UpdateName(actor.ID, req.Name); err != nil {
		return apperr.Internal("failed to update user name", err)
	}
	if req.OrganizationName != "" {
		if err := s.repos.Organizations.UpdateName(actor.OrganizationID, req.OrganizationName); err != nil {
			return apperr.Internal("failed to update organization name", err)
		}
	}
	return nil
}
