package adapters

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"lifecycle-tracker/internal/core/httpclient"
	"lifecycle-tracker/internal/core/session"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(srv *httptest.Server) *http.Client {
	store := session.NewStore("test-access", "")
	return httpclient.NewClient(5*time.Second, store, srv.URL+"/token/refresh/")
}

// TestShopSphereGateway_ListOrders verifies fetch, filter and decode.
func TestShopSphereGateway_ListOrders(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/vendor/lifecycle-orders/", r.URL.Path)
		assert.Equal(t, "pending", r.URL.Query().Get("status"))
		w.Write([]byte(`[{"id": 7, "order_pk": 34, "order_number": "ORD-1001", "order_status": "pending", "product_name": "Espresso Beans 1kg", "quantity": 2}]`))
	}))
	defer srv.Close()

	gateway := NewShopSphereGateway(srv.URL, newTestClient(srv))

	items, err := gateway.ListOrders(context.Background(), "pending")
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, "ORD-1001", items[0].OrderNumber)
}

// TestShopSphereGateway_SubmitAction verifies the action body and response.
func TestShopSphereGateway_SubmitAction(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/vendor/lifecycle-orders/34/action/", r.URL.Path)

		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "reject", body["action"])
		assert.Equal(t, "Out of stock", body["notes"])

		w.Write([]byte(`{"message": "Order rejected.", "order_status": "rejected"}`))
	}))
	defer srv.Close()

	gateway := NewShopSphereGateway(srv.URL, newTestClient(srv))

	result, err := gateway.SubmitAction(context.Background(), 34, "reject", "Out of stock")
	require.NoError(t, err)
	assert.Equal(t, "rejected", result.OrderStatus)
}

// TestShopSphereGateway_NoVendorProfile verifies a 403 keeps its message.
func TestShopSphereGateway_NoVendorProfile(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
		w.Write([]byte(`{"error": "You do not have a vendor profile."}`))
	}))
	defer srv.Close()

	gateway := NewShopSphereGateway(srv.URL, newTestClient(srv))

	_, err := gateway.ListOrders(context.Background(), "")

	var apiErr *httpclient.APIError
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.StatusCode)
	assert.Equal(t, "You do not have a vendor profile.", apiErr.Message)
}

// TestShopSphereGateway_Unauthorized verifies the terminal session error.
func TestShopSphereGateway_Unauthorized(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer srv.Close()

	gateway := NewShopSphereGateway(srv.URL, newTestClient(srv))

	_, err := gateway.SubmitAction(context.Background(), 34, "approve", "")
	assert.ErrorIs(t, err, session.ErrExpired)
}
