package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const trackingPayload = `{
	"order_number": "ORD-1001",
	"status": "packed",
	"created_at": "2026-08-01T10:15:00Z",
	"total_amount": "1499.00",
	"payment_method": "UPI",
	"payment_status": "paid",
	"delivery_address": "12 MG Road, Bengaluru, KA - 560001",
	"delivery_agent": {
		"name": "Ravi Kumar",
		"phone": "+91-9999999999",
		"vehicle": "bike",
		"vehicle_number": "KA-01-AB-1234",
		"rating": 4.6
	},
	"items": [
		{"name": "Wireless Mouse", "quantity": 2, "price": "499.00"},
		{"name": "USB-C Cable", "quantity": 1, "price": "501.00"}
	],
	"status_history": [
		{"status": "pending", "notes": "", "timestamp": "2026-08-01T10:15:00Z"},
		{"status": "approved", "notes": "Order approved by vendor.", "timestamp": "2026-08-01T11:00:00Z"},
		{"status": "packed", "notes": "Order packed and ready for delivery.", "timestamp": "2026-08-01T12:30:00Z"}
	]
}`

// TestDecodeSnapshot_Success verifies the full payload is decoded once at the boundary.
func TestDecodeSnapshot_Success(t *testing.T) {
	snapshot, err := DecodeSnapshot([]byte(trackingPayload))
	require.NoError(t, err)

	assert.Equal(t, "ORD-1001", snapshot.OrderNumber)
	assert.Equal(t, "packed", snapshot.Status)
	assert.Equal(t, "1499.00", snapshot.TotalAmount)
	assert.Equal(t, time.Date(2026, 8, 1, 10, 15, 0, 0, time.UTC), snapshot.CreatedAt)

	require.NotNil(t, snapshot.Agent)
	assert.Equal(t, "Ravi Kumar", snapshot.Agent.Name)
	assert.InDelta(t, 4.6, snapshot.Agent.Rating, 0.001)

	require.Len(t, snapshot.Items, 2)
	assert.Equal(t, 2, snapshot.Items[0].Quantity)

	require.Len(t, snapshot.History, 3)
	assert.False(t, snapshot.FetchedAt.IsZero())
}

// TestDecodeSnapshot_MissingOrderNumber verifies shape validation at the boundary.
func TestDecodeSnapshot_MissingOrderNumber(t *testing.T) {
	payload := `{"status": "pending", "created_at": "2026-08-01T10:15:00Z"}`

	snapshot, err := DecodeSnapshot([]byte(payload))
	assert.Nil(t, snapshot)

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Error(), "order_number")
}

// TestDecodeSnapshot_MalformedJSON verifies transport garbage becomes a DecodeError.
func TestDecodeSnapshot_MalformedJSON(t *testing.T) {
	snapshot, err := DecodeSnapshot([]byte("<html>gateway timeout</html>"))
	assert.Nil(t, snapshot)

	var decodeErr *DecodeError
	assert.ErrorAs(t, err, &decodeErr)
}

// TestDecodeSnapshot_BadHistoryTimestamp verifies history entries are validated too.
func TestDecodeSnapshot_BadHistoryTimestamp(t *testing.T) {
	payload := `{
		"order_number": "ORD-1",
		"status": "pending",
		"created_at": "2026-08-01T10:15:00Z",
		"status_history": [{"status": "pending", "timestamp": "yesterday"}]
	}`

	_, err := DecodeSnapshot([]byte(payload))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "status_history[0].timestamp", decodeErr.Field)
}

// TestDecodeSnapshot_NaiveTimestamp verifies the zone-less upstream format is accepted.
func TestDecodeSnapshot_NaiveTimestamp(t *testing.T) {
	payload := `{"order_number": "ORD-2", "status": "approved", "created_at": "2026-08-01T10:15:00"}`

	snapshot, err := DecodeSnapshot([]byte(payload))
	require.NoError(t, err)
	assert.Equal(t, 2026, snapshot.CreatedAt.Year())
}

// TestSnapshot_HistoryNewestFirst verifies reverse-chronological display order.
func TestSnapshot_HistoryNewestFirst(t *testing.T) {
	snapshot, err := DecodeSnapshot([]byte(trackingPayload))
	require.NoError(t, err)

	newest := snapshot.HistoryNewestFirst()
	require.Len(t, newest, 3)
	assert.Equal(t, "packed", newest[0].Status)
	assert.Equal(t, "approved", newest[1].Status)
	assert.Equal(t, "pending", newest[2].Status)

	// The underlying trail stays oldest-first.
	assert.Equal(t, "pending", snapshot.History[0].Status)
}
