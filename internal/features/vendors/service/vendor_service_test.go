package service

import (
	"context"
	"net/http"
	"testing"

	"lifecycle-tracker/internal/core/httpclient"
	lifecycle "lifecycle-tracker/internal/features/lifecycle/domain"
	"lifecycle-tracker/internal/features/vendors/domain"
	"lifecycle-tracker/internal/features/vendors/ports"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockGateway is a scripted ports.Gateway for testing.
type mockGateway struct {
	items     []domain.OrderItem
	listErr   error
	actionErr error

	lastAction string
	lastNotes  string
	lastOrder  int
	calls      int
}

func (m *mockGateway) ListOrders(ctx context.Context, status string) ([]domain.OrderItem, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.items, nil
}

func (m *mockGateway) SubmitAction(ctx context.Context, orderPK int, action, notes string) (*ports.ActionResult, error) {
	m.calls++
	m.lastOrder = orderPK
	m.lastAction = action
	m.lastNotes = notes
	if m.actionErr != nil {
		return nil, m.actionErr
	}
	return &ports.ActionResult{Message: "ok", OrderStatus: "approved"}, nil
}

// TestVendorService_ListOrders verifies the pass-through list.
func TestVendorService_ListOrders(t *testing.T) {
	gateway := &mockGateway{items: []domain.OrderItem{{OrderPK: 34, OrderStatus: "pending"}}}
	svc := NewVendorService(gateway)

	items, err := svc.ListOrders(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, items, 1)
}

// TestVendorService_SubmitAction_Approve verifies the happy path.
func TestVendorService_SubmitAction_Approve(t *testing.T) {
	gateway := &mockGateway{}
	svc := NewVendorService(gateway)

	result, err := svc.SubmitAction(context.Background(), 34, " Approve ", "")
	require.NoError(t, err)
	assert.Equal(t, "approved", result.OrderStatus)
	assert.Equal(t, "approve", gateway.lastAction)
	assert.Equal(t, 34, gateway.lastOrder)
}

// TestVendorService_SubmitAction_UnknownAction verifies the whitelist.
func TestVendorService_SubmitAction_UnknownAction(t *testing.T) {
	gateway := &mockGateway{}
	svc := NewVendorService(gateway)

	_, err := svc.SubmitAction(context.Background(), 34, "ship", "")
	assert.ErrorIs(t, err, ErrUnknownAction)
	assert.Zero(t, gateway.calls)
}

// TestVendorService_SubmitAction_RejectNeedsReason verifies the notes guard.
func TestVendorService_SubmitAction_RejectNeedsReason(t *testing.T) {
	gateway := &mockGateway{}
	svc := NewVendorService(gateway)

	_, err := svc.SubmitAction(context.Background(), 34, "reject", "   ")
	assert.ErrorIs(t, err, ErrRejectReasonRequired)
	assert.Zero(t, gateway.calls)

	_, err = svc.SubmitAction(context.Background(), 34, "reject", "Out of stock")
	require.NoError(t, err)
	assert.Equal(t, "Out of stock", gateway.lastNotes)
}

// TestVendorService_SubmitAction_NotFound verifies the sentinel mapping.
func TestVendorService_SubmitAction_NotFound(t *testing.T) {
	gateway := &mockGateway{
		actionErr: &httpclient.APIError{StatusCode: http.StatusNotFound, Message: "Not found."},
	}
	svc := NewVendorService(gateway)

	_, err := svc.SubmitAction(context.Background(), 99, "approve", "")
	assert.ErrorIs(t, err, ErrOrderNotFound)
}

// TestVendorService_SubmitAction_ServerGuardPassesThrough verifies that a
// status-based server rejection keeps its message.
func TestVendorService_SubmitAction_ServerGuardPassesThrough(t *testing.T) {
	gateway := &mockGateway{
		actionErr: &httpclient.APIError{StatusCode: http.StatusBadRequest, Message: "Cannot approve an order in status: packed"},
	}
	svc := NewVendorService(gateway)

	_, err := svc.SubmitAction(context.Background(), 34, "approve", "")

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Contains(t, apiErr.Message, "Cannot approve")
}

// TestVendorService_AvailableActions verifies the vendor gating table.
func TestVendorService_AvailableActions(t *testing.T) {
	svc := NewVendorService(&mockGateway{})

	assert.Equal(t, []lifecycle.ActionKey{lifecycle.ActionApprove, lifecycle.ActionReject},
		svc.AvailableActions("pending"))
	assert.Equal(t, []lifecycle.ActionKey{lifecycle.ActionPack, lifecycle.ActionReject},
		svc.AvailableActions("approved"))
	assert.Empty(t, svc.AvailableActions("packed"))
	assert.Empty(t, svc.AvailableActions("rejected"))
}
