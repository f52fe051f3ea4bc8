package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"social-link-service/internal/db/sqlc/gen"
	"social-link-service/internal/identity/domain"
)

type PostgresRepository struct {
	queries *gen.Queries
	sealer  Sealer
}

// NewPostgresRepository returns a social identity repository that uses the
// given db for persistence. When sealer is non-nil, access and refresh tokens
// are sealed before they are written and opened when read back.
func NewPostgresRepository(db *sql.DB, sealer Sealer) *PostgresRepository {
	return &PostgresRepository{queries: gen.New(db), sealer: sealer}
}

// GetByID returns the identity for id, or nil if not found.
// It returns an error only for database failures, not for missing rows.
func (r *PostgresRepository) GetByID(ctx context.Context, id string) (*domain.SocialIdentity, error) {
	i, err := r.queries.GetSocialIdentity(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// GetConfirmedByProviderReference returns the confirmed identity for the given
// provider and reference, or nil if not found.
func (r *PostgresRepository) GetConfirmedByProviderReference(ctx context.Context, provider, reference string) (*domain.SocialIdentity, error) {
	i, err := r.queries.GetConfirmedSocialIdentityByProviderReference(ctx, gen.GetConfirmedSocialIdentityByProviderReferenceParams{
		Provider: provider, Reference: reference,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// GetPossibleByProviderReference returns the identity for the given provider
// and reference that is confirmed or whose confirmation window is still open
// at now, or nil if not found.
func (r *PostgresRepository) GetPossibleByProviderReference(ctx context.Context, provider, reference string, now time.Time) (*domain.SocialIdentity, error) {
	i, err := r.queries.GetPossibleSocialIdentityByProviderReference(ctx, gen.GetPossibleSocialIdentityByProviderReferenceParams{
		Provider: provider, Reference: reference, ConfirmUntil: sql.NullTime{Time: now, Valid: true},
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// GetByUserAndProvider returns the identity linking the given user to the
// given provider, or nil if not found.
func (r *PostgresRepository) GetByUserAndProvider(ctx context.Context, userID, provider string) (*domain.SocialIdentity, error) {
	i, err := r.queries.GetSocialIdentityByUserAndProvider(ctx, gen.GetSocialIdentityByUserAndProviderParams{
		UserID: sql.NullString{String: userID, Valid: userID != ""}, Provider: provider,
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// GetByConfirmToken returns the identity carrying the given confirmation
// token, or nil if not found. Empty tokens never match.
func (r *PostgresRepository) GetByConfirmToken(ctx context.Context, token string) (*domain.SocialIdentity, error) {
	if token == "" {
		return nil, nil
	}
	i, err := r.queries.GetSocialIdentityByConfirmToken(ctx, token)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// Create persists the identity to the database. The identity must have ID set.
func (r *PostgresRepository) Create(ctx context.Context, identity *domain.SocialIdentity) error {
	access, err := r.seal(identity.AccessToken)
	if err != nil {
		return fmt.Errorf("sealing access token: %w", err)
	}
	refresh, err := r.seal(identity.RefreshToken)
	if err != nil {
		return fmt.Errorf("sealing refresh token: %w", err)
	}
	_, err = r.queries.CreateSocialIdentity(ctx, gen.CreateSocialIdentityParams{
		ID:           identity.ID,
		UserID:       sql.NullString{String: identity.UserID, Valid: identity.UserID != ""},
		Provider:     identity.Provider,
		Reference:    identity.Reference,
		AccessToken:  sql.NullString{String: access, Valid: access != ""},
		ExpiresAt:    timeToNullTime(identity.ExpiresAt),
		RefreshToken: sql.NullString{String: refresh, Valid: refresh != ""},
		ConfirmToken: identity.ConfirmToken,
		ConfirmUntil: timeToNullTime(identity.ConfirmUntil),
		ConfirmedAt:  timeToNullTime(identity.ConfirmedAt),
		CreatedAt:    identity.CreatedAt,
		UpdatedAt:    identity.UpdatedAt,
	})
	return err
}

// UpdateTokens replaces the stored token material for the identity with the
// given id and returns the updated identity.
func (r *PostgresRepository) UpdateTokens(ctx context.Context, id string, accessToken string, expiresAt *time.Time, refreshToken string) (*domain.SocialIdentity, error) {
	access, err := r.seal(accessToken)
	if err != nil {
		return nil, fmt.Errorf("sealing access token: %w", err)
	}
	refresh, err := r.seal(refreshToken)
	if err != nil {
		return nil, fmt.Errorf("sealing refresh token: %w", err)
	}
	i, err := r.queries.UpdateSocialIdentityTokens(ctx, gen.UpdateSocialIdentityTokensParams{
		ID:           id,
		AccessToken:  sql.NullString{String: access, Valid: access != ""},
		ExpiresAt:    timeToNullTime(expiresAt),
		RefreshToken: sql.NullString{String: refresh, Valid: refresh != ""},
		UpdatedAt:    time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// Confirm marks the identity confirmed at the given time, clearing its
// confirmation token and deadline, and returns the updated identity.
func (r *PostgresRepository) Confirm(ctx context.Context, id string, at time.Time) (*domain.SocialIdentity, error) {
	i, err := r.queries.ConfirmSocialIdentity(ctx, gen.ConfirmSocialIdentityParams{
		ID:          id,
		ConfirmedAt: sql.NullTime{Time: at, Valid: true},
		UpdatedAt:   time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// InvalidateAccessToken clears the stored access token and expiry for the
// identity with the given id and returns the updated identity.
func (r *PostgresRepository) InvalidateAccessToken(ctx context.Context, id string) (*domain.SocialIdentity, error) {
	i, err := r.queries.InvalidateSocialIdentityAccessToken(ctx, gen.InvalidateSocialIdentityAccessTokenParams{
		ID:        id,
		UpdatedAt: time.Now().UTC(),
	})
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return r.genToDomain(&i)
}

// Delete removes the identity with the given id.
func (r *PostgresRepository) Delete(ctx context.Context, id string) error {
	return r.queries.DeleteSocialIdentity(ctx, id)
}

func (r *PostgresRepository) seal(plaintext string) (string, error) {
	if r.sealer == nil || plaintext == "" {
		return plaintext, nil
	}
	return r.sealer.Seal(plaintext)
}

func (r *PostgresRepository) open(sealed string) (string, error) {
	if r.sealer == nil || sealed == "" {
		return sealed, nil
	}
	return r.sealer.Open(sealed)
}

func (r *PostgresRepository) genToDomain(i *gen.SocialIdentity) (*domain.SocialIdentity, error) {
	if i == nil {
		return nil, nil
	}
	access, err := r.open(i.AccessToken.String)
	if err != nil {
		return nil, fmt.Errorf("opening access token: %w", err)
	}
	refresh, err := r.open(i.RefreshToken.String)
	if err != nil {
		return nil, fmt.Errorf("opening refresh token: %w", err)
	}
	return &domain.SocialIdentity{
		ID:           i.ID,
		UserID:       i.UserID.String,
		Provider:     i.Provider,
		Reference:    i.Reference,
		AccessToken:  access,
		ExpiresAt:    nullTimeToPtr(i.ExpiresAt),
		RefreshToken: refresh,
		ConfirmToken: i.ConfirmToken,
		ConfirmUntil: nullTimeToPtr(i.ConfirmUntil),
		ConfirmedAt:  nullTimeToPtr(i.ConfirmedAt),
		CreatedAt:    i.CreatedAt,
		UpdatedAt:    i.UpdatedAt,
	}, nil
}

func timeToNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}

func nullTimeToPtr(t sql.NullTime) *time.Time {
	if !t.Valid {
		return nil
	}
	v := t.Time
	return &v
}
