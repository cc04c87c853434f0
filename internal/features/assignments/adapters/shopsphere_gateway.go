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
	"lifecycle-tracker/internal/features/assignments/domain"
	"lifecycle-tracker/internal/features/assignments/ports"
)

// ShopSphereGateway implements ports.Gateway against the commerce REST API.
type ShopSphereGateway struct {
	// baseURL is the commerce API root.
	baseURL string
	// client is the authenticated HTTP client.
	client *http.Client
}

// NewShopSphereGateway creates a new delivery agent gateway.
func NewShopSphereGateway(baseURL string, client *http.Client) *ShopSphereGateway {
	return &ShopSphereGateway{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
	}
}

// List returns the agent's assignments, optionally filtered by status.
func (g *ShopSphereGateway) List(ctx context.Context, status string) ([]domain.Assignment, error) {
	endpoint := g.baseURL + "/api/delivery/assignments/"
	if status != "" {
		endpoint += "?status=" + url.QueryEscape(status)
	}

	body, err := g.get(ctx, endpoint)
	if err != nil {
		return nil, err
	}
	return domain.DecodeAssignmentList(body)
}

// Get returns one assignment by id.
func (g *ShopSphereGateway) Get(ctx context.Context, id int) (*domain.Assignment, error) {
	body, err := g.get(ctx, fmt.Sprintf("%s/api/delivery/assignments/%d/", g.baseURL, id))
	if err != nil {
		return nil, err
	}
	return domain.DecodeAssignment(body)
}

// Accept claims an assigned task.
func (g *ShopSphereGateway) Accept(ctx context.Context, id int) (*ports.ActionResult, error) {
	return g.post(ctx, fmt.Sprintf("%s/api/delivery/assignments/%d/accept/", g.baseURL, id), nil)
}

// UpdateStatus requests a status transition, with optional notes.
func (g *ShopSphereGateway) UpdateStatus(ctx context.Context, id int, status, notes string) (*ports.ActionResult, error) {
	payload := map[string]string{"status": status}
	if notes != "" {
		payload["notes"] = notes
	}
	return g.post(ctx, fmt.Sprintf("%s/api/delivery/assignments/%d/update-status/", g.baseURL, id), payload)
}

// SignalNearby tells the server the agent is close; coords may be nil.
func (g *ShopSphereGateway) SignalNearby(ctx context.Context, id int, coords *ports.Coordinates) (*ports.ActionResult, error) {
	var payload any
	if coords != nil {
		payload = coords
	}
	return g.post(ctx, fmt.Sprintf("%s/api/delivery/assignments/%d/nearby/", g.baseURL, id), payload)
}

// VerifyOTP submits the customer's delivery code.
func (g *ShopSphereGateway) VerifyOTP(ctx context.Context, id int, otp string) (*ports.ActionResult, error) {
	payload := map[string]string{"otp": otp}
	return g.post(ctx, fmt.Sprintf("%s/api/delivery/assignments/%d/verify-otp/", g.baseURL, id), payload)
}

func (g *ShopSphereGateway) get(ctx context.Context, endpoint string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create assignment request: %w", err)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("assignment request failed: %w", err)
	}
	defer resp.Body.Close()

	if err := checkStatus(resp); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read assignment response: %w", err)
	}
	return body, nil
}

func (g *ShopSphereGateway) post(ctx context.Context, endpoint string, payload any) (*ports.ActionResult, error) {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal action payload: %w", err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("failed to create action request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

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
	// A 403 is a restriction on the agent account, not a stale session;
	// the server message passes through as an APIError.
	switch {
	case resp.StatusCode == http.StatusUnauthorized:
		return fmt.Errorf("assignment request unauthorized: %w", session.ErrExpired)
	case resp.StatusCode != http.StatusOK:
		return httpclient.ErrorFromResponse(resp)
	}
	return nil
}
