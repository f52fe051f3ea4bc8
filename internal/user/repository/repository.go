package repository

import (
	"context"

	"social-link-service/internal/user/domain"
)

// Repository provides access to stored users.
// Lookup methods return (nil, nil) when no matching user exists.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Create(ctx context.Context, user *domain.User) error
}
