package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Agent-side assignment statuses. These live on the assignment itself and
// progress independently of the customer-facing order status.
const (
	StatusAssigned  = "assigned"
	StatusAccepted  = "accepted"
	StatusPickedUp  = "picked_up"
	StatusInTransit = "in_transit"
	StatusDelivered = "delivered"
	StatusFailed    = "failed"
)

// Assignment is a delivery task handed to an agent, as reported by the
// commerce API. The server owns the status; the client requests transitions
// and refetches.
type Assignment struct {
	// ID is the assignment identifier used in action endpoints.
	ID int `json:"id"`
	// OrderID is the internal order identifier.
	OrderID int `json:"order_id"`
	// OrderNumber is the customer-facing order identifier.
	OrderNumber string `json:"order_number"`
	// Status is the raw assignment status string.
	Status string `json:"status"`
	// CustomerName is the recipient's display name.
	CustomerName string `json:"customer_name"`
	// PickupAddress is where the agent collects the package.
	PickupAddress string `json:"pickup_address"`
	// DeliveryAddress is the destination address.
	DeliveryAddress string `json:"delivery_address"`
	// DeliveryCity is the destination city.
	DeliveryCity string `json:"delivery_city,omitempty"`
	// DeliveryFee is the agent's fee for this task.
	DeliveryFee string `json:"delivery_fee,omitempty"`
	// AssignedAt is when the task was handed to the agent.
	AssignedAt time.Time `json:"assigned_at"`
	// Items are the package contents.
	Items []OrderLine `json:"items,omitempty"`
}

// OrderLine is a single product line inside the package.
type OrderLine struct {
	// Name is the product name.
	Name string `json:"name"`
	// Quantity is the number of units.
	Quantity int `json:"quantity"`
	// Price is the line price as reported by the server.
	Price string `json:"price,omitempty"`
}

// DecodeError is a typed failure of the fetch-boundary decoder.
type DecodeError struct {
	// Field is the payload field that failed, when known.
	Field string
	// Reason describes what was wrong.
	Reason string
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("decode assignment payload: %s", e.Reason)
	}
	return fmt.Sprintf("decode assignment payload: %s: %s", e.Field, e.Reason)
}

// rawAssignment mirrors the upstream JSON shape before validation.
type rawAssignment struct {
	ID              int       `json:"id"`
	OrderID         int       `json:"order_id"`
	OrderNumber     string    `json:"order_number"`
	Status          string    `json:"status"`
	CustomerName    string    `json:"customer_name"`
	PickupAddress   string    `json:"pickup_address"`
	DeliveryAddress string    `json:"delivery_address"`
	DeliveryCity    string    `json:"delivery_city"`
	DeliveryFee     string    `json:"delivery_fee"`
	AssignedAt      string    `json:"assigned_at"`
	Items           []rawLine `json:"items"`
}

type rawLine struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
	Price    string `json:"price"`
}

// Validate checks the shape of the raw payload before conversion.
func (r rawAssignment) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.ID, validation.Required),
		validation.Field(&r.OrderNumber, validation.Required),
		validation.Field(&r.Status, validation.Required),
	)
}

// DecodeAssignment converts one upstream assignment payload.
// All failures come back as *DecodeError.
func DecodeAssignment(data []byte) (*Assignment, error) {
	var raw rawAssignment
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}
	return convertAssignment(raw, "")
}

// DecodeAssignmentList converts the upstream list payload, a bare JSON array.
func DecodeAssignmentList(data []byte) ([]Assignment, error) {
	var raws []rawAssignment
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	assignments := make([]Assignment, 0, len(raws))
	for i, raw := range raws {
		converted, err := convertAssignment(raw, fmt.Sprintf("[%d]", i))
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, *converted)
	}
	return assignments, nil
}

func convertAssignment(raw rawAssignment, fieldPrefix string) (*Assignment, error) {
	if err := raw.Validate(); err != nil {
		return nil, &DecodeError{Field: fieldPrefix, Reason: err.Error()}
	}

	assignment := &Assignment{
		ID:              raw.ID,
		OrderID:         raw.OrderID,
		OrderNumber:     raw.OrderNumber,
		Status:          raw.Status,
		CustomerName:    raw.CustomerName,
		PickupAddress:   raw.PickupAddress,
		DeliveryAddress: raw.DeliveryAddress,
		DeliveryCity:    raw.DeliveryCity,
		DeliveryFee:     raw.DeliveryFee,
	}

	if raw.AssignedAt != "" {
		assignedAt, err := parseUpstreamTime(raw.AssignedAt)
		if err != nil {
			return nil, &DecodeError{Field: fieldPrefix + "assigned_at", Reason: err.Error()}
		}
		assignment.AssignedAt = assignedAt
	}

	for _, line := range raw.Items {
		assignment.Items = append(assignment.Items, OrderLine{
			Name:     line.Name,
			Quantity: line.Quantity,
			Price:    line.Price,
		})
	}

	return assignment, nil
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
