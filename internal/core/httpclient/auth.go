package httpclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"

	"lifecycle-tracker/internal/core/logger"
	"lifecycle-tracker/internal/core/session"

	"go.uber.org/zap"
)

// AuthTransport injects the bearer access token into every request.
// When the upstream answers 401 it attempts one silent token refresh and
// retries the original request. If the refresh fails the session store is
// cleared, so the 401 that reaches the caller is terminal.
type AuthTransport struct {
	// Base is the underlying RoundTripper to execute requests.
	Base http.RoundTripper
	// Store holds the access/refresh token pair.
	Store *session.Store
	// RefreshURL is the token refresh endpoint of the upstream API.
	RefreshURL string

	// refreshMu serializes concurrent refresh attempts.
	refreshMu sync.Mutex
}

// RoundTrip implements http.RoundTripper.
func (t *AuthTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	resp, err := t.base().RoundTrip(t.withBearer(req, t.Store.Access()))
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusUnauthorized {
		return resp, nil
	}

	access, refreshErr := t.refreshAccess(req.Context())
	if refreshErr != nil {
		logger.Get().Warn("Token refresh failed, clearing session",
			zap.String("url", req.URL.String()),
			zap.Error(refreshErr),
		)
		t.Store.Clear()
		return resp, nil
	}

	resp.Body.Close()

	retry := t.withBearer(req, access)
	if req.GetBody != nil {
		body, bodyErr := req.GetBody()
		if bodyErr != nil {
			return nil, fmt.Errorf("failed to replay request body: %w", bodyErr)
		}
		retry.Body = body
	}

	return t.base().RoundTrip(retry)
}

// withBearer clones the request and sets the Authorization header.
func (t *AuthTransport) withBearer(req *http.Request, access string) *http.Request {
	clone := req.Clone(req.Context())
	if access != "" {
		clone.Header.Set("Authorization", "Bearer "+access)
	}
	return clone
}

// refreshAccess exchanges the refresh token for a new access token.
func (t *AuthTransport) refreshAccess(ctx context.Context) (string, error) {
	t.refreshMu.Lock()
	defer t.refreshMu.Unlock()

	refresh := t.Store.Refresh()
	if refresh == "" {
		return "", session.ErrExpired
	}

	payload, err := json.Marshal(map[string]string{"refresh": refresh})
	if err != nil {
		return "", fmt.Errorf("failed to encode refresh payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.RefreshURL, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("failed to create refresh request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.base().RoundTrip(req)
	if err != nil {
		return "", fmt.Errorf("refresh request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("refresh endpoint returned status: %d", resp.StatusCode)
	}

	var result struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return "", fmt.Errorf("failed to decode refresh response: %w", err)
	}
	if result.Access == "" {
		return "", fmt.Errorf("refresh response contained no access token")
	}

	t.Store.SetAccess(result.Access)
	return result.Access, nil
}

func (t *AuthTransport) base() http.RoundTripper {
	if t.Base != nil {
		return t.Base
	}
	return http.DefaultTransport
}
