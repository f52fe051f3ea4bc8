package job

import (
	"context"
	"errors"
	"fmt"
	"time"

	identitydomain "social-link-service/internal/identity/domain"
	identityrepo "social-link-service/internal/identity/repository"
	"social-link-service/internal/provider"
)

var (
	// ErrSocialIdentityNotFound is returned when no identity exists for the
	// job's (user, provider) pair. Fatal, never retried.
	ErrSocialIdentityNotFound = errors.New("social identity not found")

	// ErrTriesExhausted is returned when the action reported failure on every
	// allowed try.
	ErrTriesExhausted = errors.New("action unsuccessful after all tries")
)

// Action is the unit of work a job runs once a valid access token is
// available. Returning false without an error requests a retry with a
// force-refreshed token; returning an error aborts immediately.
type Action func(ctx context.Context, token *TokenHandle) (bool, error)

// FaultHandler receives every error a run produces. The default handler
// returns the error unchanged; overrides can classify or swallow faults.
type FaultHandler func(ctx context.Context, err error) error

// Options configure a Runner.
type Options struct {
	// Tries is the maximum number of action executions per run. Defaults to 1.
	Tries int
	// OnFault overrides the default re-raise fault handler.
	OnFault FaultHandler
}

// TokenHandle is the action's view of the current credentials. Invalidate
// clears the stored token so the next run is forced through a refresh.
type TokenHandle struct {
	identities identityrepo.Repository
	identityID string
	value      string
}

// Value returns the current access token.
func (t *TokenHandle) Value() string {
	return t.value
}

// Invalidate clears the stored access token and expiry.
func (t *TokenHandle) Invalidate(ctx context.Context) error {
	_, err := t.identities.InvalidateAccessToken(ctx, t.identityID)
	return err
}

// Runner executes units of work that need a valid provider access token. It
// resolves the identity, refreshes the token when expired or forced, runs the
// action, and retries per the configured policy. Refresh-path faults and
// action errors are never retried.
type Runner struct {
	identities identityrepo.Repository
	registry   *provider.Registry
	tries      int
	onFault    FaultHandler
	now        func() time.Time
}

// NewRunner wires a Runner over the given identity store and provider registry.
func NewRunner(identities identityrepo.Repository, registry *provider.Registry, opts Options) *Runner {
	if opts.Tries <= 0 {
		opts.Tries = 1
	}
	onFault := opts.OnFault
	if onFault == nil {
		onFault = func(ctx context.Context, err error) error { return err }
	}
	return &Runner{
		identities: identities,
		registry:   registry,
		tries:      opts.Tries,
		onFault:    onFault,
		now:        time.Now,
	}
}

// Run executes action for the identity linking userID to providerName. Any
// error passes through the fault handler before being returned.
func (r *Runner) Run(ctx context.Context, userID, providerName string, action Action) error {
	if err := r.run(ctx, userID, providerName, action); err != nil {
		return r.onFault(ctx, err)
	}
	return nil
}

func (r *Runner) run(ctx context.Context, userID, providerName string, action Action) error {
	identity, err := r.identities.GetByUserAndProvider(ctx, userID, providerName)
	if err != nil {
		return err
	}
	if identity == nil {
		return fmt.Errorf("%w: user %s provider %s", ErrSocialIdentityNotFound, userID, providerName)
	}
	driver, err := r.registry.Get(identity.Provider)
	if err != nil {
		return err
	}

	force := false
	for try := 0; try < r.tries; try++ {
		identity, err = r.ensureFresh(ctx, driver, identity, force)
		if err != nil {
			return err
		}
		ok, err := action(ctx, &TokenHandle{
			identities: r.identities,
			identityID: identity.ID,
			value:      identity.AccessToken,
		})
		if err != nil {
			return err
		}
		if ok {
			return nil
		}
		force = true
	}
	return ErrTriesExhausted
}

// ensureFresh refreshes the stored token when it is expired, has no expiry,
// or a refresh is forced. The refreshed material is persisted before the
// action runs.
func (r *Runner) ensureFresh(ctx context.Context, driver provider.Driver, identity *identitydomain.SocialIdentity, force bool) (*identitydomain.SocialIdentity, error) {
	if !force && !identity.AccessTokenIsExpired(r.now()) {
		return identity, nil
	}

	ext, err := provider.Refresh(ctx, driver, identity.RefreshToken)
	if err != nil {
		return nil, err
	}
	if ext == nil || ext.AccessToken == "" {
		return nil, fmt.Errorf("%w: refresh response missing access token", provider.ErrCouldNotRefreshToken)
	}

	refreshToken := ext.RefreshToken
	if refreshToken == "" {
		refreshToken = identity.RefreshToken
	}
	updated, err := r.identities.UpdateTokens(ctx, identity.ID, ext.AccessToken, ext.ExpiresAt, refreshToken)
	if err != nil {
		return nil, err
	}
	if updated == nil {
		return nil, ErrSocialIdentityNotFound
	}
	return updated, nil
}
