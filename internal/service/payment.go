package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/events"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const callbackPath = "/api/payments/callback"

type PaymentService interface {
	InitiatePayment(ctx context.Context, userID string, req *dto.InitiatePaymentRequest, origin string) (*dto.InitiatePaymentResponse, error)
	// HandleCallback always returns a result, even with an error, so that the caller can still
	// send the customer somewhere sensible.
	HandleCallback(ctx context.Context, cb *model.PaymentCallback) (*CallbackResult, error)
	DefaultOrigin() string
}

type PaymentOptions struct {
	BaseURL            string
	StorefrontURL      string
	AllowedOrigins     []string
	VerifyCallbackHash bool
}

type CallbackResult struct {
	TxnID   string
	OrderID string
	Status  model.PaymentStatus
	Reason  string // set when Status is failed
	Origin  string
}

type paymentServiceImpl struct {
	db          *gorm.DB
	payuClient  client.PayUClient
	opts        PaymentOptions
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	shipments   ShipmentService
	publisher   events.Publisher
	now         func() time.Time
}

func NewPaymentService(
	db *gorm.DB,
	payuClient client.PayUClient,
	opts PaymentOptions,
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	shipments ShipmentService,
	publisher events.Publisher,
) PaymentService {
	opts.BaseURL = strings.TrimRight(opts.BaseURL, "/")
	opts.StorefrontURL = strings.TrimRight(opts.StorefrontURL, "/")
	return &paymentServiceImpl{
		db:          db,
		payuClient:  payuClient,
		opts:        opts,
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		shipments:   shipments,
		publisher:   publisher,
		now:         time.Now,
	}
}

func (s *paymentServiceImpl) DefaultOrigin() string {
	return s.opts.StorefrontURL
}

func (s *paymentServiceImpl) InitiatePayment(ctx context.Context, userID string, req *dto.InitiatePaymentRequest, origin string) (*dto.InitiatePaymentResponse, error) {
	if userID == "" {
		return nil, ErrAuthentication
	}

	resp, err := s.initiatePayment(ctx, userID, req, s.resolveOrigin(origin))
	if err != nil {
		logger.FromContext(ctx).Warn("payment initiation failed",
			zap.String("order_id", req.OrderID), zap.Error(err))
		return nil, &PaymentInitiationError{OrderID: req.OrderID, Err: err}
	}

	return resp, nil
}

func (s *paymentServiceImpl) initiatePayment(ctx context.Context, userID string, req *dto.InitiatePaymentRequest, origin string) (*dto.InitiatePaymentResponse, error) {
	if err := validateInitiateRequest(req); err != nil {
		return nil, err
	}

	order, err := s.orderRepo.FindByID(ctx, s.db, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}
	if order.PaymentStatus == model.PaymentStatusCompleted {
		return nil, ErrOrderAlreadyPaid
	}
	if !order.TotalAmount.Equal(req.Amount) {
		return nil, ErrAmountMismatch
	}

	txnID := newTransactionID(order.ID, s.now(), strings.ReplaceAll(uuid.NewString(), "-", "")[:6])
	callbackURL := s.opts.BaseURL + callbackPath

	params := s.payuClient.BuildParams(&client.PaymentRequest{
		TxnID:       txnID,
		Amount:      req.Amount.StringFixed(2),
		ProductInfo: req.ProductInfo,
		FirstName:   req.FirstName,
		Email:       req.Email,
		Phone:       req.Phone,
		SuccessURL:  callbackURL,
		FailureURL:  callbackURL,
	})

	payload, err := json.Marshal(flatten(params))
	if err != nil {
		return nil, fmt.Errorf("marshal payment params: %w", err)
	}

	// the row must exist before the customer can reach the gateway, or an early callback has nothing to update
	err = s.paymentRepo.Create(ctx, &model.Payment{
		ID:             uuid.NewString(),
		OrderID:        order.ID,
		PaymentID:      txnID,
		Method:         model.PaymentMethodPayU,
		Amount:         req.Amount,
		Status:         model.PaymentStatusPending,
		RequestPayload: string(payload),
		ReturnOrigin:   origin,
	})
	if err != nil {
		return nil, fmt.Errorf("store pending payment: %w", err)
	}

	paymentURL, err := s.payuClient.CreatePaymentURL(ctx, params)
	if err != nil {
		return nil, fmt.Errorf("create gateway payment: %w", err)
	}

	logger.FromContext(ctx).Info("payment initiated",
		zap.String("order_id", order.ID), zap.String("txnid", txnID))

	return &dto.InitiatePaymentResponse{
		PaymentURL:    paymentURL,
		TransactionID: txnID,
	}, nil
}

func (s *paymentServiceImpl) HandleCallback(ctx context.Context, cb *model.PaymentCallback) (*CallbackResult, error) {
	result := &CallbackResult{
		TxnID:  cb.TxnID,
		Status: model.PaymentStatusFailed,
		Origin: s.opts.StorefrontURL,
	}
	if cb.TxnID == "" {
		return result, ErrMissingTransaction
	}

	log := logger.FromContext(ctx).With(zap.String("txnid", cb.TxnID), zap.String("gateway_status", cb.Status))

	if s.opts.VerifyCallbackHash && !s.payuClient.VerifyCallback(cb.Raw) {
		log.Warn("payment callback signature mismatch, ignoring")
		if payment, err := s.paymentRepo.FindByPaymentID(ctx, s.db, cb.TxnID); err == nil {
			s.describe(result, payment)
		}
		return result, ErrInvalidCallbackHash
	}

	outcome, reason := model.PaymentStatusFailed, cb.FailureReason()
	if cb.IsSuccess() {
		outcome, reason = model.PaymentStatusCompleted, ""
	}

	raw, err := json.Marshal(cb.Raw)
	if err != nil {
		return result, fmt.Errorf("marshal callback payload: %w", err)
	}

	var (
		payment *model.Payment
		applied bool
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		payment, err = s.paymentRepo.FindByPaymentID(ctx, tx, cb.TxnID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentRecordNotFound
			}
			return fmt.Errorf("get payment: %w", err)
		}

		if outcome == model.PaymentStatusCompleted && !amountMatches(cb.Amount, payment.Amount) {
			log.Warn("callback amount differs from payment amount",
				zap.String("callback_amount", cb.Amount), zap.String("payment_amount", payment.Amount.StringFixed(2)))
			outcome, reason = model.PaymentStatusFailed, "Amount mismatch"
		}

		if !payment.Status.IsTerminal() {
			applied, err = s.paymentRepo.Transition(ctx, tx, cb.TxnID, outcome, string(raw))
			if err != nil {
				return fmt.Errorf("update payment: %w", err)
			}
			if applied {
				payment.Status = outcome
			} else if payment, err = s.paymentRepo.FindByPaymentID(ctx, tx, cb.TxnID); err != nil {
				return fmt.Errorf("reload payment: %w", err)
			}
		}

		if payment.Status != outcome {
			// a terminal state is never re-entered; the stored result stands
			log.Warn("callback conflicts with recorded payment status, ignoring",
				zap.String("recorded_status", string(payment.Status)))
			return nil
		}

		if _, err := s.orderRepo.FindByID(ctx, tx, payment.OrderID); err != nil {
			return &OrderUpdateError{OrderID: payment.OrderID, Err: err}
		}
		if err := s.orderRepo.ApplyPaymentOutcome(ctx, tx, payment.OrderID, payment.Status); err != nil {
			return &OrderUpdateError{OrderID: payment.OrderID, Err: err}
		}
		return nil
	})

	if payment != nil {
		s.describe(result, payment)
	}

	if err != nil {
		var orderErr *OrderUpdateError
		if errors.As(err, &orderErr) {
			log.Error("order update failed after payment callback, rolled back for gateway retry",
				zap.String("order_id", orderErr.OrderID), zap.Error(err))
		}
		return result, err
	}

	if result.Status == model.PaymentStatusFailed {
		result.Reason = "Payment failed"
		if applied || payment.Status == outcome {
			result.Reason = reason
		}
	}

	if applied {
		log.Info("payment finalized", zap.String("order_id", payment.OrderID), zap.String("status", string(payment.Status)))
		s.publishOutcome(ctx, payment)
	}

	if payment.Status == model.PaymentStatusCompleted {
		// shipment truth is decoupled from payment truth; errors are logged by the shipment service
		_, _, _ = s.shipments.CreateShipment(ctx, payment.OrderID)
	}

	return result, nil
}

func (s *paymentServiceImpl) describe(result *CallbackResult, payment *model.Payment) {
	result.OrderID = payment.OrderID
	result.Status = payment.Status
	if !payment.Status.IsTerminal() {
		result.Status = model.PaymentStatusFailed
	}
	if payment.ReturnOrigin != "" {
		result.Origin = payment.ReturnOrigin
	}
}

func (s *paymentServiceImpl) publishOutcome(ctx context.Context, payment *model.Payment) {
	eventType := events.PaymentFailed
	if payment.Status == model.PaymentStatusCompleted {
		eventType = events.PaymentCompleted
	}

	err := s.publisher.Publish(ctx, events.Event{
		Type:          eventType,
		OrderID:       payment.OrderID,
		TransactionID: payment.PaymentID,
		OccurredAt:    s.now().UTC(),
	})
	if err != nil {
		logger.FromContext(ctx).Warn("publish order event", zap.String("type", string(eventType)), zap.Error(err))
	}
}

func (s *paymentServiceImpl) resolveOrigin(origin string) string {
	origin = strings.TrimRight(origin, "/")
	if origin != "" && slices.Contains(s.opts.AllowedOrigins, origin) {
		return origin
	}
	return s.opts.StorefrontURL
}

func validateInitiateRequest(req *dto.InitiatePaymentRequest) error {
	switch {
	case req.OrderID == "":
		return errors.New("orderId is required")
	case !req.Amount.IsPositive():
		return errors.New("amount must be positive")
	case req.ProductInfo == "":
		return errors.New("productInfo is required")
	case req.FirstName == "":
		return errors.New("firstName is required")
	case req.Email == "":
		return errors.New("email is required")
	}
	return nil
}

// newTransactionID is scoped to the order and the current time, and stays within the gateway's
// 25 character limit. suffix separates initiations landing in the same millisecond.
func newTransactionID(orderID string, now time.Time, suffix string) string {
	var prefix strings.Builder
	for _, r := range orderID {
		if prefix.Len() == 8 {
			break
		}
		if (r >= '0' && r <= '9') || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			prefix.WriteRune(r)
		}
	}
	millis := strconv.FormatInt(now.UnixMilli(), 36)
	return strings.ToUpper("TXN" + prefix.String() + millis + suffix)
}

func amountMatches(reported string, expected decimal.Decimal) bool {
	if reported == "" {
		return true
	}
	amount, err := decimal.NewFromString(reported)
	if err != nil {
		return false
	}
	return amount.Equal(expected)
}

func flatten(values map[string][]string) map[string]string {
	out := make(map[string]string, len(values))
	for k, v := range values {
		if len(v) > 0 {
			out[k] = v[0]
		}
	}
	return out
}
