package identity

import (
	"context"
	"errors"

	"github.com/memoriascard/backend/internal/domain/identity"
	"github.com/memoriascard/backend/internal/domain/shared"
	"github.com/memoriascard/backend/internal/infrastructure/auth"
	"go.uber.org/zap"
)

// AuthService handles authentication operations
type AuthService struct {
	userRepo    identity.UserRepository
	profileRepo identity.ProfileRepository
	jwtService  *auth.JWTService
	blacklist   auth.TokenBlacklist
	logger      *zap.Logger
}

// NewAuthService creates a new authentication service
func NewAuthService(
	userRepo identity.UserRepository,
	profileRepo identity.ProfileRepository,
	jwtService *auth.JWTService,
	blacklist auth.TokenBlacklist,
	logger *zap.Logger,
) *AuthService {
	return &AuthService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		jwtService:  jwtService,
		blacklist:   blacklist,
		logger:      logger,
	}
}

// Register creates an account with its profile and signs the user in
func (s *AuthService) Register(ctx context.Context, input RegisterInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Registration attempt", zap.String("email", email))

	exists, err := s.userRepo.ExistsByEmail(ctx, email)
	if err != nil {
		s.logger.Error("Failed to check email", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}
	if exists {
		return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
	}

	user, err := identity.NewUser(email, input.Password)
	if err != nil {
		return nil, err
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, shared.ErrAlreadyExists) {
			return nil, shared.NewDomainError("EMAIL_TAKEN", "Email is already registered")
		}
		s.logger.Error("Failed to create user", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to create account")
	}

	profile, err := identity.NewProfile(user, input.FullName)
	if err != nil {
		return nil, err
	}
	if err := s.profileRepo.Save(ctx, profile); err != nil {
		// the profile is recreated on first read
		s.logger.Error("Failed to create profile", zap.String("user_id", user.ID.String()), zap.Error(err))
	}

	s.logger.Info("User registered", zap.String("user_id", user.ID.String()))
	return s.issue(user, profile.FullName)
}

// Login authenticates a user and returns tokens
func (s *AuthService) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	email := identity.NormalizeEmail(input.Email)
	s.logger.Info("Login attempt", zap.String("email", email))

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		s.logger.Warn("User not found during login", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	if !user.VerifyPassword(input.Password) {
		s.logger.Warn("Invalid password attempt", zap.String("email", email))
		return nil, shared.NewDomainError("INVALID_CREDENTIALS", "Invalid email or password")
	}

	user.RecordLogin()
	if err := s.userRepo.Update(ctx, user); err != nil {
		s.logger.Error("Failed to update user after successful login", zap.Error(err))
	}

	fullName := ""
	if profile, err := s.profileRepo.FindByID(ctx, user.ID); err == nil {
		fullName = profile.FullName
	}

	s.logger.Info("User logged in successfully", zap.String("user_id", user.ID.String()))
	return s.issue(user, fullName)
}

func (s *AuthService) issue(user *identity.User, fullName string) (*LoginResult, error) {
	tokenPair, err := s.jwtService.GenerateTokenPair(auth.GenerateTokenInput{
		UserID: user.ID,
		Email:  user.Email,
	})
	if err != nil {
		s.logger.Error("Failed to generate token pair", zap.Error(err))
		return nil, shared.NewDomainError("INTERNAL_ERROR", "Failed to generate authentication tokens")
	}

	return &LoginResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
		User: UserInfo{
			ID:       user.ID,
			Email:    user.Email,
			FullName: fullName,
		},
	}, nil
}

// RefreshToken refreshes the access token using a valid refresh token
func (s *AuthService) RefreshToken(ctx context.Context, input RefreshTokenInput) (*RefreshTokenResult, error) {
	claims, err := s.jwtService.ValidateRefreshToken(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Refresh token validation failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	userID, err := claims.GetUserUUID()
	if err != nil {
		return nil, shared.NewDomainError("TOKEN_INVALID", "Invalid user ID in token")
	}

	// the account must still exist
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		s.logger.Warn("User not found during token refresh", zap.String("user_id", userID.String()))
		return nil, shared.NewDomainError("USER_NOT_FOUND", "User not found")
	}

	tokenPair, err := s.jwtService.RefreshTokenPair(input.RefreshToken)
	if err != nil {
		s.logger.Warn("Token refresh failed", zap.Error(err))
		return nil, mapTokenError(err)
	}

	s.logger.Info("Token refreshed successfully", zap.String("user_id", userID.String()))
	return &RefreshTokenResult{
		AccessToken:           tokenPair.AccessToken,
		RefreshToken:          tokenPair.RefreshToken,
		AccessTokenExpiresAt:  tokenPair.AccessTokenExpiresAt,
		RefreshTokenExpiresAt: tokenPair.RefreshTokenExpiresAt,
		TokenType:             tokenPair.TokenType,
	}, nil
}

func mapTokenError(err error) error {
	switch {
	case errors.Is(err, auth.ErrExpiredToken):
		return shared.NewDomainError("TOKEN_EXPIRED", "Refresh token has expired")
	case errors.Is(err, auth.ErrMaxRefreshExceeded):
		return shared.NewDomainError("TOKEN_MAX_REFRESH", "Maximum token refresh count exceeded. Please log in again")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, auth.ErrInvalidTokenType):
		return shared.NewDomainError("TOKEN_INVALID", "Invalid refresh token")
	default:
		return shared.NewDomainError("TOKEN_ERROR", "Failed to refresh token")
	}
}

// Logout revokes the access token for the rest of its lifetime
func (s *AuthService) Logout(ctx context.Context, input LogoutInput) error {
	s.logger.Info("User logout", zap.String("user_id", input.UserID.String()))

	if input.TokenJTI == "" || input.TokenTTL <= 0 || s.blacklist == nil {
		return nil
	}
	if err := s.blacklist.AddToBlacklist(ctx, input.TokenJTI, input.TokenTTL); err != nil {
		s.logger.Error("Failed to blacklist token", zap.String("jti", input.TokenJTI), zap.Error(err))
		return shared.NewDomainError("INTERNAL_ERROR", "Failed to log out")
	}
	return nil
}
