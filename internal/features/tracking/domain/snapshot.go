package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Snapshot is the tracked order as reported by the commerce API.
// It is decoded and validated once, at the fetch boundary; everything
// downstream works with this typed model. The server owns the status:
// the client never mutates a snapshot, only replaces it with a newer fetch.
type Snapshot struct {
	// OrderNumber is the stable customer-facing identifier.
	OrderNumber string `json:"order_number"`
	// Status is the raw lifecycle status string, authoritative from the server.
	Status string `json:"status"`
	// CreatedAt is when the order was placed.
	CreatedAt time.Time `json:"created_at"`
	// TotalAmount is the order total as reported by the server.
	TotalAmount string `json:"total_amount"`
	// PaymentMethod is the display name of the payment method.
	PaymentMethod string `json:"payment_method,omitempty"`
	// PaymentStatus is the raw payment state string.
	PaymentStatus string `json:"payment_status,omitempty"`
	// DeliveryAddress is the formatted destination address.
	DeliveryAddress string `json:"delivery_address,omitempty"`
	// Agent is the assigned delivery agent, if any.
	Agent *Agent `json:"delivery_agent,omitempty"`
	// Items are the ordered products.
	Items []Item `json:"items,omitempty"`
	// History is the append-only status trail, oldest first as served.
	History []StatusChange `json:"status_history,omitempty"`
	// FetchedAt is when this snapshot was retrieved.
	FetchedAt time.Time `json:"fetched_at"`
}

// Agent is the read-only projection of the assigned delivery agent.
type Agent struct {
	// Name is the agent's display name.
	Name string `json:"name"`
	// Phone is the agent's contact number.
	Phone string `json:"phone,omitempty"`
	// Vehicle is the vehicle type (e.g. bike, van).
	Vehicle string `json:"vehicle,omitempty"`
	// VehicleNumber is the registration plate.
	VehicleNumber string `json:"vehicle_number,omitempty"`
	// Rating is the agent's average rating.
	Rating float64 `json:"rating,omitempty"`
}

// Item is a single ordered product line.
type Item struct {
	// Name is the product name.
	Name string `json:"name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Price is the line price as reported by the server.
	Price string `json:"price,omitempty"`
}

// StatusChange is one entry of the append-only status trail.
type StatusChange struct {
	// Status is the lifecycle status the order entered.
	Status string `json:"status"`
	// Notes is optional free text recorded with the change.
	Notes string `json:"notes,omitempty"`
	// Timestamp is when the change happened.
	Timestamp time.Time `json:"timestamp"`
}

// HistoryNewestFirst returns the status trail in reverse-chronological
// order for display. The underlying history is never mutated.
func (s *Snapshot) HistoryNewestFirst() []StatusChange {
	out := make([]StatusChange, len(s.History))
	for i, change := range s.History {
		out[len(s.History)-1-i] = change
	}
	return out
}

// DecodeError is a typed failure of the fetch-boundary decoder. It replaces
// the scattered optional-field defaulting the payload would otherwise need.
type DecodeError struct {
	// Field is the payload field that failed, when known.
	Field string
	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode tracking payload: %s", e.Reason)
	}
	return fmt.Sprintf("decode tracking payload: %s: %s", e.Field, e.Reason)
}

// rawSnapshot mirrors the upstream JSON shape before validation.
type rawSnapshot struct {
	OrderNumber     string      `json:"order_number"`
	Status          string      `json:"status"`
	CreatedAt       string      `json:"created_at"`
	TotalAmount     string      `json:"total_amount"`
	PaymentMethod   string      `json:"payment_method"`
	PaymentStatus   string      `json:"payment_status"`
	DeliveryAddress string      `json:"delivery_address"`
	DeliveryAgent   *rawAgent   `json:"delivery_agent"`
	Items           []rawItem   `json:"items"`
	StatusHistory   []rawChange `json:"status_history"`
}

type rawAgent struct {
	Name          string  `json:"name"`
	Phone         string  `json:"phone"`
	Vehicle       string  `json:"vehicle"`
	VehicleNumber string  `json:"vehicle_number"`
	Rating        float64 `json:"rating"`
}

type rawItem struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

type rawChange struct {
	Status    string `json:"status"`
	Notes     string `json:"notes"`
	Timestamp string `json:"timestamp"`
}

// Validate checks the shape of the raw payload before conversion.
func (r rawSnapshot) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderNumber, validation.Required),
		validation.Field(&r.Status, validation.Required),
		validation.Field(&r.CreatedAt, validation.Required),
	)
}

// DecodeSnapshot converts the upstream tracking payload into a Snapshot.
// All failures come back as *DecodeError so callers can distinguish a
// malformed upstream from a transport problem.
func DecodeSnapshot(data []byte) (*Snapshot, error) {
	var raw rawSnapshot
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	if err := raw.Validate(); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	createdAt, err := parseUpstreamTime(raw.CreatedAt)
	if err != nil {
		return nil, &DecodeError{Field: "created_at", Reason: err.Error()}
	}

	snapshot := &Snapshot{
		OrderNumber:     raw.OrderNumber,
		Status:          raw.Status,
		CreatedAt:       createdAt,
		TotalAmount:     raw.TotalAmount,
		PaymentMethod:   raw.PaymentMethod,
		PaymentStatus:   raw.PaymentStatus,
		DeliveryAddress: raw.DeliveryAddress,
		FetchedAt:       time.Now(),
	}

	if raw.DeliveryAgent != nil {
		snapshot.Agent = &Agent{
			Name:          raw.DeliveryAgent.Name,
			Phone:         raw.DeliveryAgent.Phone,
			Vehicle:       raw.DeliveryAgent.Vehicle,
			VehicleNumber: raw.DeliveryAgent.VehicleNumber,
			Rating:        raw.DeliveryAgent.Rating,
		}
	}

	for _, item := range raw.Items {
		snapshot.Items = append(snapshot.Items, Item{
			Name:     item.Name,
			Quantity: item.Quantity,
			Price:    item.Price,
		})
	}

	for i, change := range raw.StatusHistory {
		ts, err := parseUpstreamTime(change.Timestamp)
		if err != nil {
			return nil, &DecodeError{
				Field:  fmt.Sprintf("status_history[%d].timestamp", i),
				Reason: err.Error(),
			}
		}
		snapshot.History = append(snapshot.History, StatusChange{
			Status:    change.Status,
			Notes:     change.Notes,
			Timestamp: ts,
		})
	}

	return snapshot, nil
}

// parseUpstreamTime accepts the ISO-8601 variants the upstream emits.
func parseUpstreamTime(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if ts, err := time.Parse(layout, value); err == nil {
			return ts, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized timestamp %q", value)
}
