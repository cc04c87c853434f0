package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/logger"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"
	"lifecycle-tracker/internal/features/vendors/domain"
	"lifecycle-tracker/internal/features/vendors/ports"

	"go.uber.org/zap"
)

var (
	// ErrOrderNotFound is returned when the order id is unknown upstream.
	ErrOrderNotFound = errors.New("order not found")
	// ErrUnknownAction is returned for actions outside approve/reject/pack.
	ErrUnknownAction = errors.New("unknown vendor action")
	// ErrRejectReasonRequired is returned when a rejection carries no notes.
	ErrRejectReasonRequired = errors.New("a rejection reason is required")
)

// VendorService drives the vendor's order lifecycle dashboard. Actions are
// whitelisted and shaped locally; the server stays the authority on whether
// the order's current status allows the transition.
type VendorService struct {
	gateway ports.Gateway
}

// NewVendorService creates a new VendorService.
func NewVendorService(gateway ports.Gateway) *VendorService {
	return &VendorService{
		gateway: gateway,
	}
}

// ListOrders returns the vendor's order items, optionally filtered by the
// parent order status.
func (s *VendorService) ListOrders(ctx context.Context, status string) ([]domain.OrderItem, error) {
	items, err := s.gateway.ListOrders(ctx, status)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return items, nil
}

// SubmitAction requests a lifecycle transition on an order. Rejections must
// carry a reason so the customer always learns why.
func (s *VendorService) SubmitAction(ctx context.Context, orderPK int, action, notes string) (*ports.ActionResult, error) {
	action = strings.ToLower(strings.TrimSpace(action))
	notes = strings.TrimSpace(notes)

	if !domain.IsKnownAction(action) {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	if action == domain.ActionReject && notes == "" {
		return nil, ErrRejectReasonRequired
	}

	result, err := s.gateway.SubmitAction(ctx, orderPK, action, notes)
	if err != nil {
		return nil, mapNotFound(err)
	}

	logger.Get().Info("Vendor lifecycle action applied",
		zap.Int("order_pk", orderPK),
		zap.String("action", action),
		zap.String("order_status", result.OrderStatus),
	)

	return result, nil
}

// AvailableActions returns what the vendor may do with an order in the
// given status.
func (s *VendorService) AvailableActions(orderStatus string) []lifecycle.ActionKey {
	return lifecycle.AvailableActions(orderStatus, lifecycle.RoleVendor)
}

func mapNotFound(err error) error {
	var apiErr *httpclient.APIError
	if errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusNotFound {
		return fmt.Errorf("%w: %s", ErrOrderNotFound, apiErr.Message)
	}
	return err
}
