package ports

import (
	"context"

	"lifecycle-tracker/internal/features/vendors/domain"
)

// ActionResult carries what the server reported after a lifecycle action.
type ActionResult struct {
	// Message is the human-readable confirmation from the server.
	Message string `json:"message"`
	// OrderStatus is the order's lifecycle status after the action.
	OrderStatus string `json:"order_status,omitempty"`
}

// Gateway talks to the commerce API on behalf of a vendor.
type Gateway interface {
	// ListOrders returns the vendor's order items, optionally filtered by
	// the parent order status.
	ListOrders(ctx context.Context, status string) ([]domain.OrderItem, error)
	// SubmitAction requests a lifecycle transition on an order.
	SubmitAction(ctx context.Context, orderPK int, action, notes string) (*ActionResult, error)
}
