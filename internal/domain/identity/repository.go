package identity

import (
	"context"

	"github.com/google/uuid"
)

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create creates a new user
	Create(ctx context.Context, user *User) error

	// Update updates an existing user
	Update(ctx context.Context, user *User) error

	// FindByID finds a user by ID
	FindByID(ctx context.Context, id uuid.UUID) (*User, error)

	// FindByEmail finds a user by normalized email
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks if an email already exists
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// ProfileRepository defines the interface for profile persistence
type ProfileRepository interface {
	// FindByID finds the profile of a user
	FindByID(ctx context.Context, id uuid.UUID) (*Profile, error)

	// Save creates or updates a profile
	Save(ctx context.Context, profile *Profile) error
}
