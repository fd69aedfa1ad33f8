package identity

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// ProfileService reads and edits the signed-in user's profile
type ProfileService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	logger      *zap.Logger
}

// NewProfileService creates a new ProfileService
func NewProfileService(userRepo identity.UserRepository, profileRepo identity.ProfileRepository, logger *zap.Logger) *ProfileService {
	return &ProfileService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		logger:      logger,
	}
}

// Get returns the user's profile, creating an empty one when it is missing
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (*ProfileResult, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToProfileResult(profile), nil
}

// Update changes the user's full name and avatar
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, input UpdateProfileInput) (*ProfileResult, error) {
	profile, err := s.load(ctx, userID)
	if err != nil {
		return nil, err
	}
	if err := profile.Update(input.FullName, input.AvatarURL); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		s.logger.Error("Failed to save profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	s.logger.Info("Profile updated", zap.String("user_id", userID.String()))
	return ToProfileResult(profile), nil
}

func (s *ProfileService) load(ctx context.Context, userID uuid.UUID) (*identity.Profile, error) {
	if userID == uuid.Nil {
		return nil, shared.ErrNotAuthenticated
	}

	profile, err := s.profileRepo.FindByID(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, shared.ErrNotFound) {
		s.logger.Error("Failed to load profile", zap.String("user_id", userID.String()), zap.Error(err))
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	profile, err = identity.NewProfile(user, "")
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		return nil, err
	}
	s.logger.Info("Missing profile recreated", zap.String("user_id", userID.String()))
	return profile, nil
}
