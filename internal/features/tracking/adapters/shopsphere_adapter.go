package adapters

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"
	"lifecycle-tracker/internal/features/tracking/domain"
)

// ShopSphereAdapter implements ports.Provider against the commerce REST API.
type ShopSphereAdapter struct {
	// baseURL is the commerce API root.
	baseURL string
	// client is the authenticated HTTP client.
	client *http.Client
}

// NewShopSphereAdapter creates a new tracking provider for the commerce API.
func NewShopSphereAdapter(baseURL string, client *http.Client) *ShopSphereAdapter {
	return &ShopSphereAdapter{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// GetTracking fetches and decodes the tracking snapshot for an order.
func (a *ShopSphereAdapter) GetTracking(ctx context.Context, orderNumber string) (*domain.Snapshot, error) {
	if orderNumber == "" {
		return nil, fmt.Errorf("order number is required")
	}

	endpoint := fmt.Sprintf("%s/api/delivery/track/%s/", a.baseURL, url.PathEscape(orderNumber))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create tracking request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("tracking request failed: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, fmt.Errorf("tracking fetch unauthorized: %w", session.ErrExpired)
	case resp.StatusCode != http.StatusOK:
		return nil, httpclient.ErrorFromResponse(resp)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read tracking response: %w", err)
	}

	return domain.DecodeSnapshot(body)
}
