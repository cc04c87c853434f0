package ports

import (
	"context"

	"lifecycle-tracker/internal/features/assignments/domain"
)

// Coordinates is the agent's reported position when signalling nearby.
type Coordinates struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// ActionResult carries what the server reported after a transition request.
type ActionResult struct {
	// Message is the human-readable confirmation from the server.
	Message string `json:"message"`
	// OrderStatus is the customer-facing order status after the transition.
	OrderStatus string `json:"order_status,omitempty"`
	// OTPEmailSent reports whether the customer was emailed a delivery code.
	OTPEmailSent bool `json:"otp_sent_via_email,omitempty"`
}

// Gateway talks to the commerce API on behalf of a delivery agent.
// Every transition is requested, never applied locally; callers refetch
// the assignment to observe the new state.
type Gateway interface {
	// List returns the agent's assignments, optionally filtered by status.
	List(ctx context.Context, status string) ([]domain.Assignment, error)
	// Get returns one assignment by id.
	Get(ctx context.Context, id int) (*domain.Assignment, error)
	// Accept claims an assigned task.
	Accept(ctx context.Context, id int) (*ActionResult, error)
	// UpdateStatus requests a status transition, with optional notes.
	UpdateStatus(ctx context.Context, id int, status, notes string) (*ActionResult, error)
	// SignalNearby tells the server the agent is close; coords may be nil.
	SignalNearby(ctx context.Context, id int, coords *Coordinates) (*ActionResult, error)
	// VerifyOTP submits the customer's delivery code.
	VerifyOTP(ctx context.Context, id int, otp string) (*ActionResult, error)
}
