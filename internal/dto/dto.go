package dto

import (
	"storefront-checkout/internal/model"

	"github.com/shopspring/decimal"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type InitiatePaymentRequest struct {
	OrderID     string          `json:"orderId"`
	Amount      decimal.Decimal `json:"amount"`
	ProductInfo string          `json:"productInfo"`
	FirstName   string          `json:"firstName"`
	Email       string          `json:"email"`
	Phone       string          `json:"phone"`
}

type InitiatePaymentResponse struct {
	PaymentURL    string `json:"paymentUrl"`
	TransactionID string `json:"transactionId"`
}

type CreateShipmentRequest struct {
	OrderID string `json:"orderId"`
}

type CreateShipmentResponse struct {
	Success  bool            `json:"success"`
	Shipment *model.Shipment `json:"shipment"`
	Message  string          `json:"message"`
}

type OrderView struct {
	Order    *model.Order           `json:"order"`
	Shipment *model.Shipment        `json:"shipment,omitempty"`
	Tracking []*model.OrderTracking `json:"tracking"`
}

type CartItemRequest struct {
	ProductID string `json:"productId"`
	VariantID string `json:"variantId"`
	Quantity  int32  `json:"quantity"`
}

type CartResponse struct {
	Items []*model.CartItem `json:"items"`
}

type SettingResponse struct {
	Type    string `json:"type"`
	Value   any    `json:"value"`
	Default bool   `json:"default"`
}
