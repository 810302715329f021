package client

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"storefront-checkout/internal/config"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockShipmentIsDeterministic(t *testing.T) {
	fixed := time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)
	c := NewCarrierClient(&config.Carrier{MockMode: true, EstimatedDays: 5}).(*carrierClientImpl)
	c.now = func() time.Time { return fixed }

	first, err := c.CreateShipment(context.Background(), &ShipmentRequest{OrderID: "O1"})
	require.NoError(t, err)
	second, err := c.CreateShipment(context.Background(), &ShipmentRequest{OrderID: "O1"})
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, "SHP-O1", first.ShipmentID)
	assert.Regexp(t, `^TRK[0-9A-F]{12}$`, first.TrackingNumber)
	assert.Equal(t, fixed.AddDate(0, 0, 5), first.EstimatedDelivery)

	other, _ := c.CreateShipment(context.Background(), &ShipmentRequest{OrderID: "O2"})
	assert.NotEqual(t, first.TrackingNumber, other.TrackingNumber)
}

func TestLiveShipment(t *testing.T) {
	eta := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer key", r.Header.Get("Authorization"))

		var req ShipmentRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "O1", req.OrderID)

		_ = json.NewEncoder(w).Encode(ShipmentResult{ShipmentID: "S1", TrackingNumber: "AWB1", EstimatedDelivery: eta})
	}))
	defer srv.Close()

	c := NewCarrierClient(&config.Carrier{BaseURL: srv.URL, APIKey: "key"})
	res, err := c.CreateShipment(context.Background(), &ShipmentRequest{OrderID: "O1"})
	require.NoError(t, err)
	assert.Equal(t, "S1", res.ShipmentID)
	assert.Equal(t, "AWB1", res.TrackingNumber)
	assert.True(t, eta.Equal(res.EstimatedDelivery))
}

func TestLiveShipmentError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	c := NewCarrierClient(&config.Carrier{BaseURL: srv.URL, APIKey: "key"})
	_, err := c.CreateShipment(context.Background(), &ShipmentRequest{OrderID: "O1"})
	assert.ErrorContains(t, err, "carrier error 502")
}
