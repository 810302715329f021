package service

import (
	"errors"
	"fmt"
)

var (
	ErrAuthentication        = errors.New("authentication required")
	ErrMissingTransaction    = errors.New("missing transaction id")
	ErrPaymentRecordNotFound = errors.New("transaction not found")
	ErrInvalidCallbackHash   = errors.New("invalid payment signature")
	ErrOrderNotFound         = errors.New("order not found")
	ErrOrderAlreadyPaid      = errors.New("order already paid")
	ErrAmountMismatch        = errors.New("amount does not match order total")
	ErrOrderNotPaid          = errors.New("order payment is not completed")
	ErrInvalidQuantity       = errors.New("quantity must be positive")
)

// PaymentInitiationError wraps anything that stopped a payment request from being produced.
type PaymentInitiationError struct {
	OrderID string
	Err     error
}

func (e *PaymentInitiationError) Error() string {
	return fmt.Sprintf("initiate payment for order %s: %v", e.OrderID, e.Err)
}

func (e *PaymentInitiationError) Unwrap() error { return e.Err }

// OrderUpdateError means the order could not be brought in line with its payment.
type OrderUpdateError struct {
	OrderID string
	Err     error
}

func (e *OrderUpdateError) Error() string {
	return fmt.Sprintf("update order %s: %v", e.OrderID, e.Err)
}

func (e *OrderUpdateError) Unwrap() error { return e.Err }

// ShipmentCreationError never affects the payment or the order confirmation already committed.
type ShipmentCreationError struct {
	OrderID string
	Err     error
}

func (e *ShipmentCreationError) Error() string {
	return fmt.Sprintf("create shipment for order %s: %v", e.OrderID, e.Err)
}

func (e *ShipmentCreationError) Unwrap() error { return e.Err }
