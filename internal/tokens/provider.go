package tokens

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	apperrors "github.com/Custard69/BurnoutZero/internal/errors"
)

// Credential is a stored third-party credential keyed by user and provider.
// For OAuth providers (calendar) the refresh token allows transparent
// renewal; for API-key providers (time tracking) AccessToken is the key and
// Expiry is zero.
type Credential struct {
	UserID       string    `bson:"user_id" json:"user_id"`
	Provider     string    `bson:"provider" json:"provider"`
	AccessToken  string    `bson:"access_token" json:"-"`
	RefreshToken string    `bson:"refresh_token,omitempty" json:"-"`
	Expiry       time.Time `bson:"expiry,omitempty" json:"expiry,omitempty"`
}

// Expired reports whether the credential needs a refresh. A small skew keeps
// tokens from expiring mid-request.
func (c Credential) Expired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry.Add(-30 * time.Second))
}

// CredentialStore persists credentials per user and provider.
type CredentialStore interface {
	GetCredential(ctx context.Context, userID, provider string) (*Credential, error)
	SaveCredential(ctx context.Context, cred *Credential) error
}

// Provider hands out valid access credentials for a user, refreshing
// transparently when possible. Fetchers depend on this capability and never
// reimplement refresh logic.
type Provider interface {
	AccessToken(ctx context.Context, userID, provider string) (string, error)
}

// Config holds the OAuth client settings used for token refresh.
type Config struct {
	TokenURL     string
	ClientID     string
	ClientSecret string
}

// Service is the store-backed Provider implementation.
type Service struct {
	store  CredentialStore
	config Config
	client *http.Client
}

// NewService creates a token provider over the given credential store.
func NewService(store CredentialStore, config Config) *Service {
	return &Service{
		store:  store,
		config: config,
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

// AccessToken returns a valid access token for the user and provider,
// refreshing an expired one when a refresh token is available. Failures come
// back as upstream errors; callers degrade to their default value.
func (s *Service) AccessToken(ctx context.Context, userID, provider string) (string, error) {
	cred, err := s.store.GetCredential(ctx, userID, provider)
	if err != nil {
		return "", err
	}
	if cred == nil || cred.AccessToken == "" {
		return "", apperrors.NewUpstreamError(provider,
			fmt.Errorf("no linked %s account for user", provider))
	}

	if !cred.Expired() {
		return cred.AccessToken, nil
	}

	if cred.RefreshToken == "" || s.config.TokenURL == "" {
		return "", apperrors.NewUpstreamError(provider,
			fmt.Errorf("%s credential expired and cannot be refreshed", provider))
	}

	refreshed, err := s.refresh(ctx, cred)
	if err != nil {
		return "", err
	}

	if err := s.store.SaveCredential(ctx, refreshed); err != nil {
		// The refreshed token is still usable for this request.
		slog.Warn("Failed to persist refreshed credential",
			"user_id", userID, "provider", provider, "error", err)
	}

	return refreshed.AccessToken, nil
}

type tokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

func (s *Service) refresh(ctx context.Context, cred *Credential) (*Credential, error) {
	form := url.Values{
		"grant_type":    {"refresh_token"},
		"refresh_token": {cred.RefreshToken},
		"client_id":     {s.config.ClientID},
		"client_secret": {s.config.ClientSecret},
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.config.TokenURL,
		strings.NewReader(form.Encode()))
	if err != nil {
		return nil, apperrors.NewUpstreamError(cred.Provider, err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, apperrors.NewUpstreamError(cred.Provider, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, apperrors.NewUpstreamError(cred.Provider,
			fmt.Errorf("token refresh failed with status %d", resp.StatusCode))
	}

	var tr tokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&tr); err != nil {
		return nil, apperrors.NewUpstreamError(cred.Provider, err)
	}
	if tr.AccessToken == "" {
		return nil, apperrors.NewUpstreamError(cred.Provider,
			fmt.Errorf("token refresh returned no access token"))
	}

	refreshed := *cred
	refreshed.AccessToken = tr.AccessToken
	if tr.ExpiresIn > 0 {
		refreshed.Expiry = time.Now().Add(time.Duration(tr.ExpiresIn) * time.Second)
	}

	slog.Info("Refreshed upstream credential",
		"user_id", cred.UserID, "provider", cred.Provider)

	return &refreshed, nil
}
