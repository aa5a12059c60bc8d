package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
)

const googleUserInfoURL = "https://www.googleapis.com/oauth2/v2/userinfo"

// HTTPClient lets tests stub the userinfo fetch.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// OAuthService handles the Google authorization-code flow and hands the
// resulting profile to the identity service for the merge-or-create decision.
type OAuthService struct {
	config   *oauth2.Config
	identity *IdentityService
	client   HTTPClient
}

func NewOAuthService(clientID, clientSecret, callbackURL string, identity *IdentityService) *OAuthService {
	var config *oauth2.Config
	if clientID != "" && clientSecret != "" {
		config = &oauth2.Config{
			ClientID:     clientID,
			ClientSecret: clientSecret,
			Endpoint:     google.Endpoint,
			RedirectURL:  callbackURL,
			Scopes:       []string{"email", "profile"},
		}
	}
	return &OAuthService{
		config:   config,
		identity: identity,
		client:   http.DefaultClient,
	}
}

// Enabled reports whether Google credentials were configured.
func (s *OAuthService) Enabled() bool {
	return s.config != nil
}

// AuthURL returns the Google consent URL bound to the caller's state nonce.
func (s *OAuthService) AuthURL(state string) string {
	return s.config.AuthCodeURL(state)
}

// HandleCallback exchanges the authorization code, fetches the Google
// profile and federates it into a member, returning fresh tokens.
func (s *OAuthService) HandleCallback(ctx context.Context, code string) (*TokenPair, error) {
	token, err := s.config.Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("oauth: exchanging authorization code: %w", err)
	}

	profile, err := s.fetchProfile(ctx, token.AccessToken)
	if err != nil {
		return nil, err
	}
	return s.identity.Federate(*profile)
}

func (s *OAuthService) fetchProfile(ctx context.Context, accessToken string) (*ExternalProfile, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, googleUserInfoURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+accessToken)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("oauth: fetching userinfo: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("oauth: userinfo returned %d: %s", resp.StatusCode, string(body))
	}

	var payload struct {
		Email string `json:"email"`
		Name  string `json:"name"`
	}
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("oauth: decoding userinfo: %w", err)
	}

	return &ExternalProfile{
		Provider: "google",
		Email:    payload.Email,
		Name:     payload.Name,
	}, nil
}
