package provider

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrUnknownProvider is returned when a provider key is not registered.
	ErrUnknownProvider = errors.New("unknown provider")

	// ErrUnrefreshableProvider is returned when a refresh is requested from a
	// driver that cannot refresh tokens.
	ErrUnrefreshableProvider = errors.New("provider cannot refresh tokens")

	// ErrCouldNotRefreshToken is returned when a driver fails to obtain fresh
	// token material from the provider.
	ErrCouldNotRefreshToken = errors.New("could not refresh token")
)

// ExternalIdentity is the normalized identity a driver reports after a
// callback exchange or a token refresh. SubjectID is the provider-side stable
// identifier for the person; token fields carry whatever material the
// provider handed back.
type ExternalIdentity struct {
	SubjectID    string
	Name         string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    *time.Time
}

// Config describes a registered provider for display and routing purposes.
type Config struct {
	// Key identifies the provider in URLs and stored identities.
	Key         string
	DisplayName string
	Scopes      []string
	// IconHint and StyleHint are presentation hints for login buttons.
	IconHint  string
	StyleHint string
}

// Driver is the contract every external identity provider implements.
// Implementations return identity facts only and must not perform user
// resolution, linking, or session management.
type Driver interface {
	Config() Config

	// RedirectURL returns the provider authorization URL the browser is sent
	// to. state is round-tripped through the provider for CSRF protection.
	RedirectURL(state string) string

	// FetchIdentity exchanges the authorization code for provider credentials
	// and returns the normalized identity.
	FetchIdentity(ctx context.Context, code string) (*ExternalIdentity, error)
}

// Refresher is implemented by drivers that can obtain fresh token material
// without user interaction.
type Refresher interface {
	// RefreshTokens trades the stored refresh token for fresh credentials.
	// The returned identity carries token fields only; profile fields may be
	// empty.
	RefreshTokens(ctx context.Context, refreshToken string) (*ExternalIdentity, error)
}

// CanRefresh reports whether the driver supports unattended token refresh.
func CanRefresh(d Driver) bool {
	_, ok := d.(Refresher)
	return ok
}

// Refresh refreshes tokens through the driver, or returns
// ErrUnrefreshableProvider when the driver does not support it.
func Refresh(ctx context.Context, d Driver, refreshToken string) (*ExternalIdentity, error) {
	r, ok := d.(Refresher)
	if !ok {
		return nil, ErrUnrefreshableProvider
	}
	return r.RefreshTokens(ctx, refreshToken)
}
