package service

import (
	"context"
	"errors"
	"net/url"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/events"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/testdb"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const (
	testKey   = "KEY"
	testSalt  = "SALT"
	testUser  = "user-1"
	apiURL    = "http://api.test"
	shopURL   = "http://shop.test"
	mobileURL = "http://m.shop.test"
)

var errCarrierDown = errors.New("carrier unavailable")

type fakeCarrier struct {
	mu    sync.Mutex
	calls int
	err   error
	// cancel, when set, is called mid-request as if the client went away
	cancel context.CancelFunc
}

func (f *fakeCarrier) Name() string { return "Test Courier" }

func (f *fakeCarrier) CreateShipment(ctx context.Context, req *client.ShipmentRequest) (*client.ShipmentResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	if f.cancel != nil {
		f.cancel()
		return nil, ctx.Err()
	}
	if f.err != nil {
		return nil, f.err
	}
	return &client.ShipmentResult{
		ShipmentID:        "SHP-" + req.OrderID,
		TrackingNumber:    "TRK" + req.OrderID,
		EstimatedDelivery: time.Date(2026, 1, 10, 0, 0, 0, 0, time.UTC),
	}, nil
}

func (f *fakeCarrier) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeCarrier) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

type fakePublisher struct {
	mu     sync.Mutex
	events []events.Event
}

func (p *fakePublisher) Publish(ctx context.Context, event events.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

func (p *fakePublisher) Close() error { return nil }

func (p *fakePublisher) types() []events.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]events.Type, 0, len(p.events))
	for _, e := range p.events {
		out = append(out, e.Type)
	}
	return out
}

// failingPayU signs like the real client but cannot reach the gateway.
type failingPayU struct {
	client.PayUClient
	err error
}

func (f failingPayU) CreatePaymentURL(ctx context.Context, params url.Values) (string, error) {
	return "", f.err
}

type fixture struct {
	db        *gorm.DB
	payu      client.PayUClient
	carrier   *fakeCarrier
	publisher *fakePublisher

	orders    repository.OrderRepository
	payments  repository.PaymentRepository
	shipments repository.ShipmentRepository
	tracking  repository.TrackingRepository

	shipmentService ShipmentService
	paymentService  *paymentServiceImpl
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	f := &fixture{
		db: testdb.New(t),
		payu: client.NewPayUClient(&config.PayU{
			MerchantKey:  testKey,
			MerchantSalt: testSalt,
			MockMode:     true,
		}),
		carrier:   &fakeCarrier{},
		publisher: &fakePublisher{},
	}
	f.orders = repository.NewOrderRepository(f.db)
	f.payments = repository.NewPaymentRepository(f.db)
	f.shipments = repository.NewShipmentRepository(f.db)
	f.tracking = repository.NewTrackingRepository(f.db)

	f.shipmentService = NewShipmentService(
		f.db, f.carrier, model.Address{Name: "Warehouse", City: "Pune", Country: "IN"},
		f.orders, f.shipments, f.tracking, f.publisher,
	)
	f.paymentService = f.newPaymentService(f.payu)
	return f
}

func (f *fixture) newPaymentService(payu client.PayUClient) *paymentServiceImpl {
	svc := NewPaymentService(f.db, payu, PaymentOptions{
		BaseURL:            apiURL + "/",
		StorefrontURL:      shopURL,
		AllowedOrigins:     []string{mobileURL},
		VerifyCallbackHash: true,
	}, f.orders, f.payments, f.shipmentService, f.publisher).(*paymentServiceImpl)

	// each call moves the clock so events and ids order like real initiations
	clock := time.Date(2026, 1, 5, 10, 0, 0, 0, time.UTC)
	var mu sync.Mutex
	svc.now = func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		clock = clock.Add(time.Millisecond)
		return clock
	}
	return svc
}

// seedOrder creates a 4999.00 order with three units across two lines.
func (f *fixture) seedOrder(t *testing.T, id, userID string, method model.PaymentMethod) *model.Order {
	t.Helper()

	product := &model.Product{ID: "prod-" + id, Name: "Whey Protein", SKU: "WHEY-" + id, Price: decimal.RequireFromString("1999.50")}
	variant := &model.ProductVariant{ID: "var-" + id, ProductID: product.ID, Name: "1 kg", SKU: "WHEY-1KG-" + id, Price: decimal.RequireFromString("1999.50")}
	require.NoError(t, f.db.Create(product).Error)
	require.NoError(t, f.db.Create(variant).Error)

	order := &model.Order{
		ID:            id,
		UserID:        userID,
		TotalAmount:   decimal.RequireFromString("4999.00"),
		Status:        model.OrderStatusPending,
		PaymentStatus: model.PaymentStatusPending,
		PaymentMethod: method,
		ShippingAddress: model.Address{
			Name:       "Asha Rao",
			Phone:      "9876543210",
			Line1:      "12 MG Road",
			City:       "Bengaluru",
			State:      "KA",
			PostalCode: "560001",
			Country:    "IN",
		},
		Items: []model.OrderItem{
			{ProductID: product.ID, VariantID: &variant.ID, Quantity: 2, UnitPrice: decimal.RequireFromString("1999.50")},
			{ProductID: product.ID, Quantity: 1, UnitPrice: decimal.RequireFromString("1000.00")},
		},
	}
	require.NoError(t, f.orders.Create(context.Background(), f.db, order))
	return order
}

func (f *fixture) initiate(t *testing.T, orderID string) string {
	t.Helper()
	resp, err := f.paymentService.InitiatePayment(context.Background(), testUser, initiateRequest(orderID), mobileURL)
	require.NoError(t, err)
	return resp.TransactionID
}

func (f *fixture) payment(t *testing.T, txnID string) *model.Payment {
	t.Helper()
	var p model.Payment
	require.NoError(t, f.db.Where("payment_id = ?", txnID).First(&p).Error)
	return &p
}

func (f *fixture) order(t *testing.T, id string) *model.Order {
	t.Helper()
	var o model.Order
	require.NoError(t, f.db.Where("id = ?", id).First(&o).Error)
	return &o
}

func (f *fixture) count(t *testing.T, m any, query string, args ...any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Where(query, args...).Count(&n).Error)
	return n
}

func initiateRequest(orderID string) *dto.InitiatePaymentRequest {
	return &dto.InitiatePaymentRequest{
		OrderID:     orderID,
		Amount:      decimal.RequireFromString("4999"),
		ProductInfo: "Whey Protein",
		FirstName:   "Asha",
		Email:       "a@b.com",
		Phone:       "9876543210",
	}
}

// signedCallback builds a gateway result with a valid reverse hash.
func signedCallback(status, txnID, amount string, extra map[string]string) *model.PaymentCallback {
	raw := map[string]string{
		"status":      status,
		"txnid":       txnID,
		"amount":      amount,
		"productinfo": "Whey Protein",
		"firstname":   "Asha",
		"email":       "a@b.com",
	}
	for k, v := range extra {
		raw[k] = v
	}
	raw["hash"] = client.ResponseHash(testKey, testSalt, raw)

	return &model.PaymentCallback{
		Status:       status,
		TxnID:        txnID,
		Amount:       amount,
		ProductInfo:  raw["productinfo"],
		FirstName:    raw["firstname"],
		Email:        raw["email"],
		Hash:         raw["hash"],
		Error:        raw["error"],
		ErrorMessage: raw["error_Message"],
		Raw:          raw,
	}
}
