package domain

import (
	"encoding/json"
	"fmt"
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Vendor lifecycle actions. The server remains the authority on whether a
// transition applies; these gate what the dashboard offers.
const (
	ActionApprove = "approve"
	ActionReject  = "reject"
	ActionPack    = "pack"
)

// OrderItem is one of the vendor's product lines enriched with the parent
// order's lifecycle state, as served by the commerce API.
type OrderItem struct {
	// ID is the order item identifier.
	ID int `json:"id"`
	// OrderPK is the parent order identifier used in action endpoints.
	OrderPK int `json:"order_pk"`
	// OrderNumber is the customer-facing order identifier.
	OrderNumber string `json:"order_number"`
	// OrderStatus is the parent order's raw lifecycle status.
	OrderStatus string `json:"order_status"`
	// OrderCreatedAt is when the parent order was placed.
	OrderCreatedAt time.Time `json:"order_created_at"`
	// ProductName is the ordered product.
	ProductName string `json:"product_name"`
	// Quantity is the number of units ordered.
	Quantity int `json:"quantity"`
	// Price is the line price as reported by the server.
	Price string `json:"price,omitempty"`
	// CustomerName is the buyer's display name.
	CustomerName string `json:"customer_name,omitempty"`
	// CustomerEmail is the buyer's email address.
	CustomerEmail string `json:"customer_email,omitempty"`
	// PaymentStatus is the parent order's payment state.
	PaymentStatus string `json:"payment_status,omitempty"`
	// InvoiceNumber is the generated invoice reference.
	InvoiceNumber string `json:"invoice_number,omitempty"`
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
		return fmt.Sprintf("decode vendor order payload: %s", e.Reason)
	}
	return fmt.Sprintf("decode vendor order payload: %s: %s", e.Field, e.Reason)
}

// rawOrderItem mirrors the upstream JSON shape before validation.
type rawOrderItem struct {
	ID             int    `json:"id"`
	OrderPK        int    `json:"order_pk"`
	OrderNumber    string `json:"order_number"`
	OrderStatus    string `json:"order_status"`
	OrderCreatedAt string `json:"order_created_at"`
	ProductName    string `json:"product_name"`
	Quantity       int    `json:"quantity"`
	Price          string `json:"price"`
	CustomerName   string `json:"customer_name"`
	CustomerEmail  string `json:"customer_email"`
	PaymentStatus  string `json:"payment_status"`
	InvoiceNumber  string `json:"invoice_number"`
}

// Validate checks the shape of the raw payload before conversion.
func (r rawOrderItem) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.OrderPK, validation.Required),
		validation.Field(&r.OrderStatus, validation.Required),
	)
}

// DecodeOrderItems converts the upstream list payload, a bare JSON array.
// All failures come back as *DecodeError.
func DecodeOrderItems(data []byte) ([]OrderItem, error) {
	var raws []rawOrderItem
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, &DecodeError{Reason: err.Error()}
	}

	items := make([]OrderItem, 0, len(raws))
	for i, raw := range raws {
		if err := raw.Validate(); err != nil {
			return nil, &DecodeError{Field: fmt.Sprintf("[%d]", i), Reason: err.Error()}
		}

		item := OrderItem{
			ID:            raw.ID,
			OrderPK:       raw.OrderPK,
			OrderNumber:   raw.OrderNumber,
			OrderStatus:   raw.OrderStatus,
			ProductName:   raw.ProductName,
			Quantity:      raw.Quantity,
			Price:         raw.Price,
			CustomerName:  raw.CustomerName,
			CustomerEmail: raw.CustomerEmail,
			PaymentStatus: raw.PaymentStatus,
			InvoiceNumber: raw.InvoiceNumber,
		}

		if raw.OrderCreatedAt != "" {
			createdAt, err := parseUpstreamTime(raw.OrderCreatedAt)
			if err != nil {
				return nil, &DecodeError{
					Field:  fmt.Sprintf("[%d].order_created_at", i),
					Reason: err.Error(),
				}
			}
			item.OrderCreatedAt = createdAt
		}

		items = append(items, item)
	}
	return items, nil
}

// IsKnownAction reports whether the action is one the vendor may ever issue.
func IsKnownAction(action string) bool {
	switch action {
	case ActionApprove, ActionReject, ActionPack:
		return true
	}
	return false
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
