package adapters

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"
	"lifecycle-tracker/internal/features/vendors/domain"
	"lifecycle-tracker/internal/features/vendors/ports"
)

// ShopSphereGateway implements ports.Gateway against the commerce REST API.
type ShopSphereGateway struct {
	// baseURL is the commerce API root.
	baseURL string
	// client is the authenticated HTTP client.
	client *http.Client
}

// NewShopSphereGateway creates a new vendor gateway.
func NewShopSphereGateway(baseURL string, client *http.Client) *ShopSphereGateway {
	return &ShopSphereGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// ListOrders returns the vendor's order items, optionally filtered by the
// parent order status.
func (g *ShopSphereGateway) ListOrders(ctx context.Context, status string) ([]domain.OrderItem, error) {
	endpoint := g.baseURL + "/api/vendor/lifecycle-orders/"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create vendor orders request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("vendor orders request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read vendor orders response: %w", err)
	}

	return domain.DecodeOrderItems(body)
}

// SubmitAction requests a lifecycle transition on an order.
func (g *ShopSphereGateway) SubmitAction(ctx context.Context, orderPK int, action, notes string) (*ports.ActionResult, error) {
	payload := map[string]string{"action": action}
	if notes != "" {
		payload["notes"] = notes
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal action payload: %w", err)
	}

	endpoint := fmt.Sprintf("%s/api/vendor/lifecycle-orders/%d/action/", g.baseURL, orderPK)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create action request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("action request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	var result ports.ActionResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("failed to decode action response: %w", err)
	}
	return &result, nil
}

func checkStatus(resp *http.Response) error {
	// A 403 means no vendor profile or no items in the order; the server
	// message passes through as an APIError.
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("vendor request unauthorized: %w", session.ErrExpired)
	case resp.StatusCode != http.StatusOK:
		return httpclient.ErrorFromResponse(resp)
	}
	return nil
}
