package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"smart-dispatch/internal/core/cache"
	"smart-dispatch/internal/core/logger"
	"smart-dispatch/internal/features/delivery/domain"

	"go.uber.org/zap"
)

const (
	uberTokenScope = "eats.deliveries"
	// uberTokenRefreshBuffer renews tokens this long before Uber expires them.
	uberTokenRefreshBuffer = 5 * time.Minute
	// uberDefaultTokenLifetime applies when the token response omits expires_in.
	uberDefaultTokenLifetime = 2592000 * time.Second
	uberTokenKeyPrefix       = "uber:token:"
)

// UberTokenSource issues OAuth client-credentials tokens and caches them per client id.
type UberTokenSource struct {
	authURL string
	client  *http.Client
	cache   cache.Cache
}

// NewUberTokenSource creates a new UberTokenSource.
func NewUberTokenSource(authURL string, client *http.Client, c cache.Cache) *UberTokenSource {
	return &UberTokenSource{
		authURL: authURL,
		client:  client,
		cache:   c,
	}
}

type uberTokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	Scope       string `json:"scope"`
}

// Token returns a valid access token, requesting a new one when the cached token is missing.
func (s *UberTokenSource) Token(ctx context.Context, creds domain.UberCredentials) (string, error) {
	key := uberTokenKeyPrefix + creds.ClientID

	cached, err := s.cache.Get(ctx, key)
	if err == nil && len(cached) > 0 {
		return string(cached), nil
	}
	if err != nil && !errors.Is(err, cache.ErrNotFound) {
		logger.Get().Warn("Uber token cache read failed", zap.Error(err))
	}

	token, lifetime, err := s.requestToken(ctx, creds)
	if err != nil {
		return "", err
	}

	ttl := lifetime - uberTokenRefreshBuffer
	if ttl > 0 {
		if err := s.cache.Set(ctx, key, []byte(token), ttl); err != nil {
			logger.Get().Warn("Uber token cache write failed", zap.Error(err))
		}
	}
	return token, nil
}

func (s *UberTokenSource) requestToken(ctx context.Context, creds domain.UberCredentials) (string, time.Duration, error) {
	form := url.Values{}
	form.Set("client_id", creds.ClientID)
	form.Set("client_secret", creds.ClientSecret)
	form.Set("grant_type", "client_credentials")
	form.Set("scope", uberTokenScope)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.authURL, strings.NewReader(form.Encode()))
	if err != nil {
		return "", 0, fmt.Errorf("failed to create Uber token request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := s.client.Do(req)
	if err != nil {
		return "", 0, fmt.Errorf("Uber token request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return "", 0, fmt.Errorf("failed to authenticate with Uber: %w",
			&APIError{Provider: "Uber", Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))})
	}

	var body uberTokenResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", 0, fmt.Errorf("failed to decode Uber token response: %w", err)
	}
	if body.AccessToken == "" {
		return "", 0, errors.New("failed to authenticate with Uber: empty access token")
	}

	lifetime := uberDefaultTokenLifetime
	if body.ExpiresIn > 0 {
		lifetime = time.Duration(body.ExpiresIn) * time.Second
	}
	return body.AccessToken, lifetime, nil
}
