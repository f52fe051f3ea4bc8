package job

import (
	"context"
	"errors"
	"testing"
	"time"

	identitydomain "social-link-service/internal/identity/domain"
	"social-link-service/internal/provider"
)

type fakeIdentityRepo struct {
	identities  map[string]*identitydomain.SocialIdentity
	invalidated []string
}

func newFakeIdentityRepo() *fakeIdentityRepo {
	return &fakeIdentityRepo{identities: map[string]*identitydomain.SocialIdentity{}}
}

func (f *fakeIdentityRepo) GetByID(ctx context.Context, id string) (*identitydomain.SocialIdentity, error) {
	return f.identities[id], nil
}

func (f *fakeIdentityRepo) GetConfirmedByProviderReference(ctx context.Context, providerName, reference string) (*identitydomain.SocialIdentity, error) {
	return nil, nil
}

func (f *fakeIdentityRepo) GetPossibleByProviderReference(ctx context.Context, providerName, reference string, now time.Time) (*identitydomain.SocialIdentity, error) {
	return nil, nil
}

func (f *fakeIdentityRepo) GetByUserAndProvider(ctx context.Context, userID, providerName string) (*identitydomain.SocialIdentity, error) {
	for _, i := range f.identities {
		if i.UserID == userID && i.Provider == providerName {
			return i, nil
		}
	}
	return nil, nil
}

func (f *fakeIdentityRepo) GetByConfirmToken(ctx context.Context, token string) (*identitydomain.SocialIdentity, error) {
	return nil, nil
}

func (f *fakeIdentityRepo) Create(ctx context.Context, identity *identitydomain.SocialIdentity) error {
	f.identities[identity.ID] = identity
	return nil
}

func (f *fakeIdentityRepo) UpdateTokens(ctx context.Context, id string, accessToken string, expiresAt *time.Time, refreshToken string) (*identitydomain.SocialIdentity, error) {
	i, ok := f.identities[id]
	if !ok {
		return nil, nil
	}
	i.AccessToken = accessToken
	i.ExpiresAt = expiresAt
	i.RefreshToken = refreshToken
	return i, nil
}

func (f *fakeIdentityRepo) Confirm(ctx context.Context, id string, at time.Time) (*identitydomain.SocialIdentity, error) {
	return f.identities[id], nil
}

func (f *fakeIdentityRepo) InvalidateAccessToken(ctx context.Context, id string) (*identitydomain.SocialIdentity, error) {
	i, ok := f.identities[id]
	if !ok {
		return nil, nil
	}
	i.AccessToken = ""
	i.ExpiresAt = nil
	f.invalidated = append(f.invalidated, id)
	return i, nil
}

func (f *fakeIdentityRepo) Delete(ctx context.Context, id string) error {
	delete(f.identities, id)
	return nil
}

// refreshDriver supports refresh; plainDriver does not.
type plainDriver struct {
	key string
}

func (d *plainDriver) Config() provider.Config { return provider.Config{Key: d.key} }

func (d *plainDriver) RedirectURL(state string) string { return "" }

func (d *plainDriver) FetchIdentity(ctx context.Context, code string) (*provider.ExternalIdentity, error) {
	return nil, nil
}

type refreshDriver struct {
	plainDriver
	refreshed int
	result    *provider.ExternalIdentity
	err       error
}

func (d *refreshDriver) RefreshTokens(ctx context.Context, refreshToken string) (*provider.ExternalIdentity, error) {
	d.refreshed++
	if d.err != nil {
		return nil, d.err
	}
	return d.result, nil
}

func futureTime(t *testing.T, d time.Duration) *time.Time {
	t.Helper()
	at := time.Now().Add(d).UTC()
	return &at
}

func seedIdentity(repo *fakeIdentityRepo, expiresAt *time.Time) *identitydomain.SocialIdentity {
	identity := &identitydomain.SocialIdentity{
		ID:           "i1",
		UserID:       "u1",
		Provider:     "google",
		Reference:    "subject-1",
		AccessToken:  "stored-token",
		RefreshToken: "stored-refresh",
		ExpiresAt:    expiresAt,
	}
	repo.identities[identity.ID] = identity
	return identity
}

func TestRun_ValidTokenNoRefresh(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, time.Hour))
	driver := &refreshDriver{plainDriver: plainDriver{key: "google"}}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{})

	calls := 0
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		calls++
		if token.Value() != "stored-token" {
			t.Errorf("action token = %q, want stored-token", token.Value())
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if calls != 1 {
		t.Errorf("action calls = %d, want exactly 1", calls)
	}
	if driver.refreshed != 0 {
		t.Errorf("refresh calls = %d, want 0", driver.refreshed)
	}
}

func TestRun_ExpiredTokenRefreshes(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, -time.Hour))
	driver := &refreshDriver{
		plainDriver: plainDriver{key: "google"},
		result: &provider.ExternalIdentity{
			AccessToken: "fresh-token",
			ExpiresAt:   futureTime(t, time.Hour),
		},
	}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{})

	var seen string
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		seen = token.Value()
		return true, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if driver.refreshed != 1 {
		t.Errorf("refresh calls = %d, want 1", driver.refreshed)
	}
	if seen != "fresh-token" {
		t.Errorf("action token = %q, want fresh-token", seen)
	}
	if repo.identities["i1"].AccessToken != "fresh-token" {
		t.Error("refreshed token should be persisted")
	}
	if repo.identities["i1"].RefreshToken != "stored-refresh" {
		t.Error("missing refresh token in response should keep the stored one")
	}
}

func TestRun_NilExpiryTreatedAsExpired(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, nil)
	driver := &refreshDriver{
		plainDriver: plainDriver{key: "google"},
		result: &provider.ExternalIdentity{
			AccessToken: "fresh-token",
			ExpiresAt:   futureTime(t, time.Hour),
		},
	}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{})

	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		return true, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if driver.refreshed != 1 {
		t.Errorf("refresh calls = %d, want 1", driver.refreshed)
	}
}

func TestRun_IdentityNotFound(t *testing.T) {
	repo := newFakeIdentityRepo()
	runner := NewRunner(repo, provider.NewRegistry(&refreshDriver{plainDriver: plainDriver{key: "google"}}), Options{Tries: 3})

	calls := 0
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		calls++
		return true, nil
	})
	if !errors.Is(err, ErrSocialIdentityNotFound) {
		t.Fatalf("Run error = %v, want ErrSocialIdentityNotFound", err)
	}
	if calls != 0 {
		t.Error("action must never run without an identity")
	}
}

func TestRun_MalformedRefreshResponse(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, nil)
	driver := &refreshDriver{
		plainDriver: plainDriver{key: "google"},
		result:      &provider.ExternalIdentity{AccessToken: ""},
	}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{Tries: 3})

	calls := 0
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		calls++
		return true, nil
	})
	if !errors.Is(err, provider.ErrCouldNotRefreshToken) {
		t.Fatalf("Run error = %v, want ErrCouldNotRefreshToken", err)
	}
	if calls != 0 {
		t.Error("action must never run after a failed refresh")
	}
	if driver.refreshed != 1 {
		t.Errorf("refresh calls = %d, want 1 (fatal, never retried)", driver.refreshed)
	}
}

func TestRun_UnrefreshableProvider(t *testing.T) {
	repo := newFakeIdentityRepo()
	identity := seedIdentity(repo, nil)
	identity.Provider = "github"
	runner := NewRunner(repo, provider.NewRegistry(&plainDriver{key: "github"}), Options{})

	err := runner.Run(context.Background(), "u1", "github", func(ctx context.Context, token *TokenHandle) (bool, error) {
		t.Fatal("action must not run")
		return true, nil
	})
	if !errors.Is(err, provider.ErrUnrefreshableProvider) {
		t.Fatalf("Run error = %v, want ErrUnrefreshableProvider", err)
	}
}

func TestRun_RetryForcesRefresh(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, time.Hour))
	driver := &refreshDriver{
		plainDriver: plainDriver{key: "google"},
		result: &provider.ExternalIdentity{
			AccessToken: "fresh-token",
			ExpiresAt:   futureTime(t, time.Hour),
		},
	}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{Tries: 2})

	var tokens []string
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		tokens = append(tokens, token.Value())
		return len(tokens) > 1, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(tokens) != 2 {
		t.Fatalf("action calls = %d, want 2", len(tokens))
	}
	if tokens[0] != "stored-token" || tokens[1] != "fresh-token" {
		t.Errorf("tokens = %v, want [stored-token fresh-token]", tokens)
	}
	if driver.refreshed != 1 {
		t.Errorf("refresh calls = %d, want 1 (forced on retry only)", driver.refreshed)
	}
}

func TestRun_TriesExhausted(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, time.Hour))
	driver := &refreshDriver{
		plainDriver: plainDriver{key: "google"},
		result: &provider.ExternalIdentity{
			AccessToken: "fresh-token",
			ExpiresAt:   futureTime(t, time.Hour),
		},
	}
	runner := NewRunner(repo, provider.NewRegistry(driver), Options{Tries: 3})

	calls := 0
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		calls++
		return false, nil
	})
	if !errors.Is(err, ErrTriesExhausted) {
		t.Fatalf("Run error = %v, want ErrTriesExhausted", err)
	}
	if calls != 3 {
		t.Errorf("action calls = %d, want 3", calls)
	}
}

func TestRun_ActionErrorNeverRetried(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, time.Hour))
	runner := NewRunner(repo, provider.NewRegistry(&refreshDriver{plainDriver: plainDriver{key: "google"}}), Options{Tries: 5})

	boom := errors.New("downstream exploded")
	calls := 0
	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		calls++
		return false, boom
	})
	if !errors.Is(err, boom) {
		t.Fatalf("Run error = %v, want the action's error", err)
	}
	if calls != 1 {
		t.Errorf("action calls = %d, want 1 (errors are never retried)", calls)
	}
}

func TestRun_ActionCanInvalidateToken(t *testing.T) {
	repo := newFakeIdentityRepo()
	seedIdentity(repo, futureTime(t, time.Hour))
	runner := NewRunner(repo, provider.NewRegistry(&refreshDriver{plainDriver: plainDriver{key: "google"}}), Options{})

	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		if err := token.Invalidate(ctx); err != nil {
			return false, err
		}
		return true, nil
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if repo.identities["i1"].AccessToken != "" || repo.identities["i1"].ExpiresAt != nil {
		t.Error("invalidation should clear the stored token and expiry")
	}
}

func TestRun_FaultHandlerOverride(t *testing.T) {
	repo := newFakeIdentityRepo()
	var handled error
	runner := NewRunner(repo, provider.NewRegistry(&plainDriver{key: "google"}), Options{
		OnFault: func(ctx context.Context, err error) error {
			handled = err
			return nil // swallow
		},
	})

	err := runner.Run(context.Background(), "u1", "google", func(ctx context.Context, token *TokenHandle) (bool, error) {
		return true, nil
	})
	if err != nil {
		t.Fatalf("overridden fault handler swallowed the error, Run should return nil, got %v", err)
	}
	if !errors.Is(handled, ErrSocialIdentityNotFound) {
		t.Errorf("handler saw %v, want ErrSocialIdentityNotFound", handled)
	}
}
