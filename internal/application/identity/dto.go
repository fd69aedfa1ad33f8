package identity

import (
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/identity"
)

// RegisterInput contains the input for signing up
type RegisterInput struct {
	Email    string
	Password string
	FullName string
}

// LoginInput contains the input for user login
type LoginInput struct {
	Email    string
	Password string
}

// LoginResult contains the result of a successful login or registration
type LoginResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
	User                  UserInfo
}

// UserInfo contains basic user information returned after login
type UserInfo struct {
	ID       uuid.UUID
	Email    string
	FullName string
}

// RefreshTokenInput contains the input for token refresh
type RefreshTokenInput struct {
	RefreshToken string
}

// RefreshTokenResult contains the result of a token refresh
type RefreshTokenResult struct {
	AccessToken           string
	RefreshToken          string
	AccessTokenExpiresAt  time.Time
	RefreshTokenExpiresAt time.Time
	TokenType             string
}

// LogoutInput contains the input for user logout
type LogoutInput struct {
	UserID   uuid.UUID
	TokenJTI string        // JWT ID of the access token being revoked
	TokenTTL time.Duration // remaining lifetime of that token
}

// UpdateProfileInput contains the editable profile fields
type UpdateProfileInput struct {
	FullName  string
	AvatarURL string
}

// ProfileResult is the profile returned to its owner
type ProfileResult struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"fullName"`
	AvatarURL string    `json:"avatarUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ToProfileResult converts a domain profile
func ToProfileResult(p *identity.Profile) *ProfileResult {
	return &ProfileResult{
		ID:        p.ID,
		Email:     p.Email,
		FullName:  p.FullName,
		AvatarURL: p.AvatarURL,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}
