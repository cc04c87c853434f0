package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const orderItemsPayload = `[
	{
		"id": 7,
		"order_pk": 34,
		"order_number": "ORD-1001",
		"order_status": "pending",
		"order_created_at": "2026-08-01T08:00:00Z",
		"product_name": "Espresso Beans 1kg",
		"quantity": 2,
		"price": "850.00",
		"customer_name": "Asha Rao",
		"customer_email": "asha@example.com",
		"payment_status": "paid",
		"invoice_number": "INV-ORD-1001"
	}
]`

// TestDecodeOrderItems_Success verifies the enriched list payload.
func TestDecodeOrderItems_Success(t *testing.T) {
	items, err := DecodeOrderItems([]byte(orderItemsPayload))
	require.NoError(t, err)
	require.Len(t, items, 1)

	assert.Equal(t, 34, items[0].OrderPK)
	assert.Equal(t, "pending", items[0].OrderStatus)
	assert.Equal(t, time.Date(2026, 8, 1, 8, 0, 0, 0, time.UTC), items[0].OrderCreatedAt)
	assert.Equal(t, "INV-ORD-1001", items[0].InvoiceNumber)
}

// TestDecodeOrderItems_MissingOrderPK verifies required-field validation.
func TestDecodeOrderItems_MissingOrderPK(t *testing.T) {
	_, err := DecodeOrderItems([]byte(`[{"id": 7, "order_status": "pending"}]`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "[0]", decodeErr.Field)
}

// TestDecodeOrderItems_BadTimestamp verifies the failing field is named.
func TestDecodeOrderItems_BadTimestamp(t *testing.T) {
	_, err := DecodeOrderItems([]byte(`[{"id": 7, "order_pk": 34, "order_status": "pending", "order_created_at": "last week"}]`))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Equal(t, "[0].order_created_at", decodeErr.Field)
}

// TestIsKnownAction verifies the vendor action whitelist.
func TestIsKnownAction(t *testing.T) {
	assert.True(t, IsKnownAction(ActionApprove))
	assert.True(t, IsKnownAction(ActionReject))
	assert.True(t, IsKnownAction(ActionPack))
	assert.False(t, IsKnownAction("ship"))
	assert.False(t, IsKnownAction(""))
}
