package identity

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/memoriascard/backend/internal/domain/shared"
)

// Profile holds the public details of a user. Its ID is the user's ID.
type Profile struct {
	ID        uuid.UUID
	Email     string
	FullName  string
	AvatarURL string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// NewProfile creates the profile written when a user registers
func NewProfile(user *User, fullName string) (*Profile, error) {
	if user == nil || user.ID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_USER_ID", "User ID cannot be empty")
	}
	p := &Profile{
		ID:        user.ID,
		Email:     user.Email,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.CreatedAt,
	}
	if err := p.Update(fullName, ""); err != nil {
		return nil, err
	}
	return p, nil
}

// Update changes the editable profile fields
func (p *Profile) Update(fullName, avatarURL string) error {
	fullName = strings.TrimSpace(fullName)
	avatarURL = strings.TrimSpace(avatarURL)

	if len(fullName) > 200 {
		return shared.NewDomainError("INVALID_FULL_NAME", "Full name cannot exceed 200 characters")
	}
	if len(avatarURL) > 500 {
		return shared.NewDomainError("INVALID_AVATAR", "Avatar URL cannot exceed 500 characters")
	}

	p.FullName = fullName
	p.AvatarURL = avatarURL
	p.UpdatedAt = time.Now()
	return nil
}
