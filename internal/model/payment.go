package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending   PaymentStatus = "pending"
	PaymentStatusCompleted PaymentStatus = "completed"
	PaymentStatusFailed    PaymentStatus = "failed"
)

func (s PaymentStatus) IsTerminal() bool {
	return s == PaymentStatusCompleted || s == PaymentStatusFailed
}

type PaymentMethod string

const (
	PaymentMethodPayU PaymentMethod = "payu"
	PaymentMethodCOD  PaymentMethod = "cod"
)

// Payment is one attempt to pay an order. Status only moves pending -> completed|failed.
type Payment struct {
	ID              string          `gorm:"primaryKey;size:64;not null" json:"id"`
	OrderID         string          `gorm:"size:64;index;not null" json:"order_id"`
	PaymentID       string          `gorm:"size:64;uniqueIndex;not null" json:"payment_id"` // gateway txnid
	Method          PaymentMethod   `gorm:"size:16;not null" json:"method"`
	Amount          decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Status          PaymentStatus   `gorm:"size:32;index;not null" json:"status"`
	RequestPayload  string          `gorm:"type:text" json:"-"`
	GatewayResponse string          `gorm:"type:text" json:"-"`
	ReturnOrigin    string          `gorm:"size:255" json:"-"` // storefront the customer is sent back to
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// PaymentCallback is what the gateway reports for a transaction, by redirect or webhook.
type PaymentCallback struct {
	Status       string
	TxnID        string
	Amount       string
	ProductInfo  string
	FirstName    string
	Email        string
	Phone        string
	Hash         string
	PGType       string
	BankRefNum   string
	BankCode     string
	Error        string
	ErrorMessage string

	// Raw holds every field as received, for audit.
	Raw map[string]string
}

func (c *PaymentCallback) IsSuccess() bool {
	return c.Status == "success"
}

// FailureReason is the best human readable message the gateway gave for a failure.
func (c *PaymentCallback) FailureReason() string {
	switch {
	case c.ErrorMessage != "":
		return c.ErrorMessage
	case c.Error != "":
		return c.Error
	default:
		return "Payment failed"
	}
}
