package services

import (
	"context"
	"strings"

	"hearthub/internal/models"
	"hearthub/internal/repositories"

	"github.com/google/uuid"
)

type UpdateProfileRequest struct {
	FirstName string  `json:"first_name"`
	LastName  string  `json:"last_name"`
	Phone     *string `json:"phone"`
	Bio       *string `json:"bio"`
	AvatarURL *string `json:"avatar_url"`
}

type UserService interface {
	Me(ctx context.Context, userID uuid.UUID, email string) (*models.User, error)
	UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *UpdateProfileRequest) (*models.User, error)
}

type userService struct {
	userRepo repositories.UserRepository
}

func NewUserService(userRepo repositories.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

// Me returns the caller's profile, creating the row on first access.
func (s *userService) Me(ctx context.Context, userID uuid.UUID, email string) (*models.User, error) {
	user := &models.User{ID: userID, Email: email}
	if err := s.userRepo.Upsert(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID uuid.UUID, email string, req *UpdateProfileRequest) (*models.User, error) {
	if req == nil {
		return nil, validationError("request body is required")
	}
	if strings.TrimSpace(req.FirstName) == "" || strings.TrimSpace(req.LastName) == "" {
		return nil, validationError("first_name and last_name are required")
	}

	user, err := s.Me(ctx, userID, email)
	if err != nil {
		return nil, err
	}
	user.FirstName = strings.TrimSpace(req.FirstName)
	user.LastName = strings.TrimSpace(req.LastName)
	user.Phone = req.Phone
	user.Bio = req.Bio
	user.AvatarURL = req.AvatarURL

	if err := s.userRepo.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}
