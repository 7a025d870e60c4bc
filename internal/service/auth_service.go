package service

import (
	"errors"
	"strings"

	"github.com/shinerking/nexusflow/internal/apperr"
	"github.com/shinerking/nexusflow/internal/model"
	"github.com/shinerking/nexusflow/internal/repository"
	"github.com/shinerking/nexusflow/pkg/jwt"

	"gorm.io/gorm"
)

type AuthService interface {
	Login(email string) (*LoginResult, error)
}

type LoginResult struct {
	Token string      `json:"token"`
	User  model.Actor `json:"user"`
}

type authService struct {
	userRepo repository.UserRepository
}

func NewAuthService(userRepo repository.UserRepository) AuthService {
	return &authService{userRepo: userRepo}
}

// Login resolves a session from an email alone. There is no credential:
// a known email gets a token carrying the user's role and organization.
func (s *authService) Login(email string) (*LoginResult, error) {
	email = strings.TrimSpace(strings.ToLower(email))
	if email == "" {
		return nil, apperr.Validation("Email is required")
	}

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.Unauthorized("Unknown email address")
		}
		return nil, apperr.Internal("login failed", err)
	}

	token, err := jwt.GenerateToken(user.ID, user.Email, user.Name, string(user.Role), user.OrganizationID)
	if err != nil {
		return nil, apperr.Internal("failed to issue session token", err)
	}

	return &LoginResult{Token: token, User: user.AsActor()}, nil
}
