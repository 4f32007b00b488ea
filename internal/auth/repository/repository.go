package repository

import (
	"context"

	authdomain "leafscan-backend/internal/auth/domain"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// Create assigns an id and inserts the user. It returns
	// authdomain.ErrEmailTaken when the email is already present.
	Create(ctx context.Context, user *authdomain.User) error

	// FindByEmail returns nil, nil when no user matches.
	FindByEmail(ctx context.Context, email string) (*authdomain.User, error)

	// FindByID returns nil, nil when no user matches.
	FindByID(ctx context.Context, id string) (*authdomain.User, error)
}
