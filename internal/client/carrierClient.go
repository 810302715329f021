package client

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/model"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CarrierClient interface {
	Name() string
	CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResult, error)
}

type ShipmentItem struct {
	Name         string          `json:"name"`
	SKU          string          `json:"sku"`
	Units        int32           `json:"units"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type ShipmentRequest struct {
	OrderID       string          `json:"order_id"`
	OrderDate     time.Time       `json:"order_date"`
	PaymentMethod string          `json:"payment_method"`
	Pickup        model.Address   `json:"pickup"`
	Delivery      model.Address   `json:"delivery"`
	Items         []ShipmentItem  `json:"order_items"`
	SubTotal      decimal.Decimal `json:"sub_total"`
	WeightKg      decimal.Decimal `json:"weight"`
	LengthCm      int32           `json:"length"`
	BreadthCm     int32           `json:"breadth"`
	HeightCm      int32           `json:"height"`
}

type ShipmentResult struct {
	ShipmentID        string    `json:"shipment_id"`
	TrackingNumber    string    `json:"tracking_number"`
	EstimatedDelivery time.Time `json:"estimated_delivery"`
}

type carrierClientImpl struct {
	httpClient    *http.Client
	baseURL       string
	apiKey        string
	name          string
	mockMode      bool
	estimatedDays int
	now           func() time.Time
}

func NewCarrierClient(cfg *config.Carrier) CarrierClient {
	return &carrierClientImpl{
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL:       strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:        cfg.APIKey,
		name:          cfg.Name,
		mockMode:      cfg.MockMode,
		estimatedDays: cfg.EstimatedDays,
		now:           time.Now,
	}
}

func (c *carrierClientImpl) Name() string {
	return c.name
}

func (c *carrierClientImpl) CreateShipment(ctx context.Context, req *ShipmentRequest) (*ShipmentResult, error) {
	if c.mockMode {
		return c.mockShipment(req), nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal shipment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/shipments", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create shipment request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("carrier request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("carrier error %d: %s", resp.StatusCode, string(b))
	}

	var result ShipmentResult
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, fmt.Errorf("decode carrier response: %w", err)
	}
	if result.ShipmentID == "" || result.TrackingNumber == "" {
		return nil, fmt.Errorf("carrier response missing shipment id or tracking number")
	}

	return &result, nil
}

// mockShipment derives ids from the order id so that retries produce the same handle.
func (c *carrierClientImpl) mockShipment(req *ShipmentRequest) *ShipmentResult {
	sum := sha256.Sum256([]byte(req.OrderID))
	return &ShipmentResult{
		ShipmentID:        "SHP-" + req.OrderID,
		TrackingNumber:    "TRK" + strings.ToUpper(hex.EncodeToString(sum[:6])),
		EstimatedDelivery: c.now().AddDate(0, 0, c.estimatedDays).UTC(),
	}
}
