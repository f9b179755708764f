package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/phrazzld/magicshop-api/internal/config"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"
)

const githubAPIURL = "https://api.github.com"

// Profile is the identity returned by the provider.
type Profile struct {
	GitHubID  int64  `json:"id"`
	Login     string `json:"login"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// IdentityProvider runs the OAuth authorization code flow.
type IdentityProvider interface {
	// AuthCodeURL returns the provider's consent page URL for state.
	AuthCodeURL(state string) string

	// Exchange trades an authorization code for the signed-in profile.
	Exchange(ctx context.Context, code string) (*Profile, error)
}

// GitHubProvider signs users in with a GitHub OAuth app.
type GitHubProvider struct {
	oauth  *oauth2.Config
	apiURL string
}

var _ IdentityProvider = (*GitHubProvider)(nil)

// NewGitHubProvider creates a provider for the configured OAuth app.
func NewGitHubProvider(cfg config.GitHubConfig) *GitHubProvider {
	return &GitHubProvider{
		oauth: &oauth2.Config{
			ClientID:     cfg.ClientID,
			ClientSecret: cfg.ClientSecret,
			RedirectURL:  cfg.RedirectURL,
			Scopes:       cfg.Scopes,
			Endpoint:     github.Endpoint,
		},
		apiURL: githubAPIURL,
	}
}

func (p *GitHubProvider) AuthCodeURL(state string) string {
	return p.oauth.AuthCodeURL(state)
}

func (p *GitHubProvider) Exchange(ctx context.Context, code string) (*Profile, error) {
	if code == "" {
		return nil, fmt.Errorf("%w: missing authorization code", ErrProviderFailure)
	}

	token, err := p.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("%w: exchange code: %v", ErrProviderFailure, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, strings.TrimRight(p.apiURL, "/")+"/user", nil)
	if err != nil {
		return nil, fmt.Errorf("build profile request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := p.oauth.Client(ctx, token).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: fetch profile: %v", ErrProviderFailure, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: profile request returned %d", ErrProviderFailure, resp.StatusCode)
	}

	var profile Profile
	if err := json.NewDecoder(resp.Body).Decode(&profile); err != nil {
		return nil, fmt.Errorf("%w: decode profile: %v", ErrProviderFailure, err)
	}
	if profile.GitHubID == 0 || profile.Login == "" {
		return nil, fmt.Errorf("%w: incomplete profile", ErrProviderFailure)
	}
	return &profile, nil
}
