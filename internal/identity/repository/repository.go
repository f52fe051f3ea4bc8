package repository

import (
	"context"
	"time"

	"social-link-service/internal/identity/domain"
)

// Repository provides access to stored social identities.
// Lookup methods return (nil, nil) when no matching identity exists.
type Repository interface {
	GetByID(ctx context.Context, id string) (*domain.SocialIdentity, error)
	// GetConfirmedByProviderReference returns the confirmed identity for the
	// given provider and provider-side reference, or nil if none exists.
	GetConfirmedByProviderReference(ctx context.Context, provider, reference string) (*domain.SocialIdentity, error)
	// GetPossibleByProviderReference returns the identity for the given
	// provider and reference that is either confirmed or still inside its
	// confirmation window at now, or nil if none exists.
	GetPossibleByProviderReference(ctx context.Context, provider, reference string, now time.Time) (*domain.SocialIdentity, error)
	GetByUserAndProvider(ctx context.Context, userID, provider string) (*domain.SocialIdentity, error)
	GetByConfirmToken(ctx context.Context, token string) (*domain.SocialIdentity, error)
	Create(ctx context.Context, identity *domain.SocialIdentity) error
	// UpdateTokens replaces the stored access token, expiry, and refresh token
	// for the identity with the given id.
	UpdateTokens(ctx context.Context, id string, accessToken string, expiresAt *time.Time, refreshToken string) (*domain.SocialIdentity, error)
	// Confirm marks the identity as confirmed at the given time and clears its
	// confirmation token and deadline.
	Confirm(ctx context.Context, id string, at time.Time) (*domain.SocialIdentity, error)
	// InvalidateAccessToken clears the stored access token and expiry so the
	// next use forces a refresh.
	InvalidateAccessToken(ctx context.Context, id string) (*domain.SocialIdentity, error)
	Delete(ctx context.Context, id string) error
}

// Sealer encrypts provider token material before it reaches the database and
// decrypts it on the way out.
type Sealer interface {
	Seal(plaintext string) (string, error)
	Open(sealed string) (string, error)
}
