package github

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"golang.org/x/oauth2"
	githuboauth "golang.org/x/oauth2/github"

	"social-link-service/internal/provider"
)

const (
	providerKey = "github"
	userAPIURL  = "https://api.github.com/user"
)

// Driver authenticates against GitHub. GitHub OAuth app tokens do not expire
// and cannot be refreshed, so the driver does not implement refresh support.
type Driver struct {
	oauthConfig *oauth2.Config
}

// New returns a GitHub driver. redirectURL must match the callback URL
// registered on the OAuth app.
func New(clientID, clientSecret, redirectURL string) (*Driver, error) {
	if clientID == "" || clientSecret == "" || redirectURL == "" {
		return nil, errors.New("github oauth config missing required fields")
	}
	return &Driver{
		oauthConfig: &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			RedirectURL:  redirectURL,
			Endpoint:     githuboauth.Endpoint,
			Scopes:       []string{"read:user", "user:email"},
		},
	}, nil
}

func (d *Driver) Config() provider.Config {
	return provider.Config{
		Key:         providerKey,
		DisplayName: "GitHub",
		Scopes:      d.oauthConfig.Scopes,
		IconHint:    "github",
		StyleHint:   "btn-github",
	}
}

// RedirectURL builds the GitHub authorization URL.
func (d *Driver) RedirectURL(state string) string {
	return d.oauthConfig.AuthCodeURL(state)
}

// FetchIdentity exchanges the authorization code and loads the user profile
// from the GitHub API.
func (d *Driver) FetchIdentity(ctx context.Context, code string) (*provider.ExternalIdentity, error) {
	token, err := d.oauthConfig.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("github token exchange failed: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, userAPIURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := d.oauthConfig.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("github user lookup failed: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("github user lookup returned status %d", resp.StatusCode)
	}

	var profile struct {
		ID    int64  `json:"id"`
		Login string `json:"login"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("github user response parse failed: %w", err)
	}
	if profile.ID == 0 {
		return nil, errors.New("github user response missing id")
	}

	name := profile.Name
	if name == "" {
		name = profile.Login
	}
	return &provider.ExternalIdentity{
		SubjectID:   strconv.FormatInt(profile.ID, 10),
		Name:        name,
		Email:       profile.Email,
		AccessToken: token.AccessToken,
		ExpiresAt:   nil,
	}, nil
}
