package provider

import (
	"context"
	"errors"
	"testing"
)

type stubDriver struct {
	key string
}

func (d *stubDriver) Config() Config {
	return Config{Key: d.key, DisplayName: d.key}
}

func (d *stubDriver) RedirectURL(state string) string {
	return "https://example.com/authorize?state=" + state
}

func (d *stubDriver) FetchIdentity(ctx context.Context, code string) (*ExternalIdentity, error) {
	return &ExternalIdentity{SubjectID: "subject"}, nil
}

type stubRefreshableDriver struct {
	stubDriver
}

func (d *stubRefreshableDriver) RefreshTokens(ctx context.Context, refreshToken string) (*ExternalIdentity, error) {
	return &ExternalIdentity{AccessToken: "fresh"}, nil
}

func TestRegistryGet(t *testing.T) {
	r := NewRegistry(&stubDriver{key: "google"}, &stubDriver{key: "github"})

	d, err := r.Get("google")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if d.Config().Key != "google" {
		t.Errorf("got driver %q, want google", d.Config().Key)
	}

	if _, err := r.Get("missing"); !errors.Is(err, ErrUnknownProvider) {
		t.Errorf("Get(missing) error = %v, want ErrUnknownProvider", err)
	}
}

func TestRegistryHas(t *testing.T) {
	r := NewRegistry(&stubDriver{key: "google"})
	if !r.Has("google") {
		t.Error("Has(google) = false, want true")
	}
	if r.Has("missing") {
		t.Error("Has(missing) = true, want false")
	}
}

func TestRegistryConfigs_Order(t *testing.T) {
	r := NewRegistry(&stubDriver{key: "b"}, &stubDriver{key: "a"}, &stubDriver{key: "c"})
	configs := r.Configs()
	want := []string{"b", "a", "c"}
	if len(configs) != len(want) {
		t.Fatalf("got %d configs, want %d", len(configs), len(want))
	}
	for i, cfg := range configs {
		if cfg.Key != want[i] {
			t.Errorf("configs[%d].Key = %q, want %q", i, cfg.Key, want[i])
		}
	}
}

func TestCanRefresh(t *testing.T) {
	if CanRefresh(&stubDriver{key: "plain"}) {
		t.Error("plain driver should not report refresh support")
	}
	if !CanRefresh(&stubRefreshableDriver{stubDriver{key: "refreshable"}}) {
		t.Error("refreshable driver should report refresh support")
	}
}

func TestRefresh_Unrefreshable(t *testing.T) {
	_, err := Refresh(context.Background(), &stubDriver{key: "plain"}, "rt")
	if !errors.Is(err, ErrUnrefreshableProvider) {
		t.Errorf("Refresh error = %v, want ErrUnrefreshableProvider", err)
	}
}
