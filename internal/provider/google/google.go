package google

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/coreos/go-oidc/v3/oidc"
	"golang.org/x/oauth2"

	"social-link-service/internal/provider"
)

const providerKey = "google"

// Driver authenticates against Google with OpenID Connect. It supports
// unattended token refresh when Google granted a refresh token.
type Driver struct {
	oauthConfig *oauth2.Config
	verifier    *oidc.IDTokenVerifier
}

// New returns a Google driver. redirectURL must match the callback URL
// registered in the Google console.
func New(ctx context.Context, clientID, clientSecret, redirectURL string) (*Driver, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("google oauth config missing required fields")
	}

	oidcProvider, err := oidc.NewProvider(ctx, "https://accounts.google.com")
	if err != nil {
		return nil, fmt.Errorf("init google oidc provider: %w", err)
	}

	return &Driver{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     oidcProvider.Endpoint(),
			Scopes:       []string{oidc.ScopeOpenID, "profile", "email"},
		},
		verifier: oidcProvider.Verifier(&oidc.Config{ClientID: clientID}),
	}, nil
}

func (d *Driver) Config() provider.Config {
	return provider.Config{
		Key:         providerKey,
		DisplayName: "Google",
		Scopes:      d.oauthConfig.Scopes,
		IconHint:    "google",
		StyleHint:   "btn-google",
	}
}

// RedirectURL builds the Google authorization URL. Offline access and a
// consent prompt are requested so Google hands back a refresh token.
func (d *Driver) RedirectURL(state string) string {
	return d.oauthConfig.AuthCodeURL(
		state,
		oauth2.AccessTypeOffline,
		oauth2.SetAuthURLParam("prompt", "consent"),
	)
}

// FetchIdentity exchanges the authorization code, verifies the id_token, and
// returns the normalized identity.
func (d *Driver) FetchIdentity(ctx context.Context, code string) (*provider.ExternalIdentity, error) {
	token, err := d.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("google token exchange failed: %w", err)
	}

	rawIDToken, ok := token.Extra("id_token").(string)
	if !ok || rawIDToken == "" {
		return nil, errors.New("google did not return id_token")
	}

	idToken, err := d.verifier.Verify(ctx, rawIDToken)
	if err != nil {
		return nil, fmt.Errorf("google id_token verification failed: %w", err)
	}

	var claims struct {
		Subject string `json:"sub"`
		Name    string `json:"name"`
		Email   string `json:"email"`
	}
	if err := idToken.Claims(&claims); err != nil {
		return nil, fmt.Errorf("google id_token claims parse failed: %w", err)
	}
	if claims.Subject == "" {
		return nil, errors.New("google id_token missing sub claim")
	}

	return &provider.ExternalIdentity{
		SubjectID:    claims.Subject,
		Name:         claims.Name,
		Email:        claims.Email,
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    tokenExpiry(token),
	}, nil
}

// RefreshTokens trades the stored refresh token for a fresh access token.
func (d *Driver) RefreshTokens(ctx context.Context, refreshToken string) (*provider.ExternalIdentity, error) {
	if refreshToken == "" {
		return nil, fmt.Errorf("%w: no refresh token stored", provider.ErrCouldNotRefreshToken)
	}
	src := d.oauthConfig.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	token, err := src.Token()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", provider.ErrCouldNotRefreshToken, err)
	}
	if token.AccessToken == "" {
		return nil, fmt.Errorf("%w: provider returned empty access token", provider.ErrCouldNotRefreshToken)
	}

	// Google only rotates the refresh token occasionally; keep the old one
	// when the response omits it.
	if token.RefreshToken == "" {
		token.RefreshToken = refreshToken
	}
	return &provider.ExternalIdentity{
		AccessToken:  token.AccessToken,
		RefreshToken: token.RefreshToken,
		ExpiresAt:    tokenExpiry(token),
	}, nil
}

func tokenExpiry(token *oauth2.Token) *time.Time {
	if token.Expiry.IsZero() {
		return nil
	}
	expiry := token.Expiry.UTC()
	return &expiry
}
