package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type ShipmentStatus string

const (
	ShipmentStatusPending ShipmentStatus = "pending"
	ShipmentStatusCreated ShipmentStatus = "created"
	ShipmentStatusFailed  ShipmentStatus = "failed"
)

// Shipment is unique per order; a failed one is retried in place.
type Shipment struct {
	ID                  string          `gorm:"primaryKey;size:64;not null" json:"id"`
	OrderID             string          `gorm:"size:64;uniqueIndex;not null" json:"order_id"`
	ExternalShipmentID  string          `gorm:"size:128" json:"shipment_id"`
	TrackingNumber      string          `gorm:"size:128;index" json:"tracking_number"`
	Carrier             string          `gorm:"size:64" json:"carrier"`
	Status              ShipmentStatus  `gorm:"size:32;not null" json:"status"`
	PickupAddress       Address         `gorm:"embedded;embeddedPrefix:pickup_" json:"pickup_address"`
	DeliveryAddress     Address         `gorm:"embedded;embeddedPrefix:delivery_" json:"delivery_address"`
	WeightKg            decimal.Decimal `gorm:"type:decimal(8,2)" json:"weight_kg"`
	LengthCm            int32           `json:"length_cm"`
	BreadthCm           int32           `json:"breadth_cm"`
	HeightCm            int32           `json:"height_cm"`
	EstimatedDeliveryAt *time.Time      `json:"estimated_delivery_at,omitempty"`
	RequestPayload      string          `gorm:"type:text" json:"-"`
	LastError           string          `gorm:"type:text" json:"last_error,omitempty"`
	CreatedAt           time.Time       `json:"created_at"`
	UpdatedAt           time.Time       `json:"updated_at"`
}

// OrderTracking rows are append-only.
type OrderTracking struct {
	ID                  uint       `gorm:"primaryKey" json:"id"`
	OrderID             string     `gorm:"size:64;index;not null" json:"order_id"`
	Status              string     `gorm:"size:255;not null" json:"status"`
	TrackingNumber      string     `gorm:"size:128" json:"tracking_number"`
	Carrier             string     `gorm:"size:64" json:"carrier"`
	EstimatedDeliveryAt *time.Time `json:"estimated_delivery_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
}

func (OrderTracking) TableName() string {
	return "order_tracking"
}
