package directory

import (
	"context"
	"time"

	"github.com/google/uuid"

	"social-link-service/internal/user/domain"
	"social-link-service/internal/user/repository"
)

// Directory resolves local users from the attributes an external identity
// provider reports about a person.
type Directory struct {
	users          repository.Repository
	canCreateUsers bool
}

// New returns a directory backed by the given user repository. When
// canCreateUsers is false, CreateFromExternalIdentity always returns nil.
func New(users repository.Repository, canCreateUsers bool) *Directory {
	return &Directory{users: users, canCreateUsers: canCreateUsers}
}

// RetrieveByExternalIdentity returns the local user matching the email the
// provider reported, or nil if no such user exists or no email was reported.
func (d *Directory) RetrieveByExternalIdentity(ctx context.Context, email string) (*domain.User, error) {
	if email == "" {
		return nil, nil
	}
	return d.users.GetByEmail(ctx, email)
}

// CreateFromExternalIdentity creates a local user from the provider-reported
// attributes. It returns nil when user creation is disabled or when the
// provider reported no email to key the account on.
func (d *Directory) CreateFromExternalIdentity(ctx context.Context, email, name string) (*domain.User, error) {
	if !d.canCreateUsers || email == "" {
		return nil, nil
	}
	now := time.Now().UTC()
	user := &domain.User{
		ID:        uuid.NewString(),
		Email:     email,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := d.users.Create(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

// GetByID returns the local user with the given id, or nil if none exists.
func (d *Directory) GetByID(ctx context.Context, id string) (*domain.User, error) {
	return d.users.GetByID(ctx, id)
}
