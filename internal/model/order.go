package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending       OrderStatus = "pending"
	OrderStatusConfirmed     OrderStatus = "confirmed"
	OrderStatusPaymentFailed OrderStatus = "payment_failed"
	OrderStatusProcessing    OrderStatus = "processing"
	OrderStatusShipped       OrderStatus = "shipped"
	OrderStatusDelivered     OrderStatus = "delivered"
	OrderStatusCancelled     OrderStatus = "cancelled"
)

type Address struct {
	Name       string `gorm:"size:128" json:"name"`
	Phone      string `gorm:"size:32" json:"phone"`
	Email      string `gorm:"size:128" json:"email,omitempty"`
	Line1      string `gorm:"size:255" json:"line1"`
	Line2      string `gorm:"size:255" json:"line2,omitempty"`
	City       string `gorm:"size:64" json:"city"`
	State      string `gorm:"size:64" json:"state"`
	PostalCode string `gorm:"size:16" json:"postal_code"`
	Country    string `gorm:"size:8" json:"country"`
}

// Order is created by checkout; this service only moves it through payment and shipment.
type Order struct {
	ID              string          `gorm:"primaryKey;size:64;not null" json:"id"`
	UserID          string          `gorm:"size:64;index;not null" json:"user_id"`
	TotalAmount     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`
	Status          OrderStatus     `gorm:"size:32;index;not null" json:"status"`
	PaymentStatus   PaymentStatus   `gorm:"size:32;index;not null" json:"payment_status"`
	PaymentMethod   PaymentMethod   `gorm:"size:16;not null" json:"payment_method"`
	ShippingAddress Address         `gorm:"embedded;embeddedPrefix:shipping_" json:"shipping_address"`
	Items           []OrderItem     `gorm:"foreignKey:OrderID" json:"items,omitempty"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

type OrderItem struct {
	ID        uint            `gorm:"primaryKey" json:"id"`
	OrderID   string          `gorm:"size:64;index;not null" json:"order_id"`
	ProductID string          `gorm:"size:64;index;not null" json:"product_id"`
	VariantID *string         `gorm:"size:64;index" json:"variant_id,omitempty"`
	Quantity  int32           `gorm:"not null" json:"quantity"`
	UnitPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	Product   *Product        `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Variant   *ProductVariant `gorm:"foreignKey:VariantID" json:"variant,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

type Product struct {
	ID        string          `gorm:"primaryKey;size:64;not null" json:"id"`
	Name      string          `gorm:"size:255;not null" json:"name"`
	SKU       string          `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

type ProductVariant struct {
	ID        string          `gorm:"primaryKey;size:64;not null" json:"id"`
	ProductID string          `gorm:"size:64;index;not null" json:"product_id"`
	Name      string          `gorm:"size:128;not null" json:"name"` // e.g. "60 capsules"
	SKU       string          `gorm:"size:64;uniqueIndex;not null" json:"sku"`
	Price     decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ItemCount is the total number of units across all lines.
func (o *Order) ItemCount() int32 {
	var n int32
	for _, item := range o.Items {
		n += item.Quantity
	}
	return n
}
