package handler

import (
	"errors"
	"net/http"
	"net/url"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/service"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"
)

type PaymentHandler struct {
	paymentService service.PaymentService
}

func NewPaymentHandler(paymentService service.PaymentService) *PaymentHandler {
	return &PaymentHandler{
		paymentService: paymentService,
	}
}

func (h *PaymentHandler) InitiatePayment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.InitiatePaymentRequest
	if err := c.Bind(&req); err != nil {
		return httpError(errBadRequest)
	}

	origin := c.Request().Header.Get("Origin")
	result, err := h.paymentService.InitiatePayment(ctx, middleware.UserID(c), &req, origin)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, result)
}

// PaymentCallback always answers with a redirect. Gateways retry on anything else.
func (h *PaymentHandler) PaymentCallback(c echo.Context) error {
	ctx := c.Request().Context()

	form, err := c.FormParams()
	if err != nil {
		logger.FromContext(ctx).Warn("unreadable payment callback", zap.Error(err))
		form = c.QueryParams()
	}
	cb := callbackFromForm(form)

	result, err := h.paymentService.HandleCallback(ctx, cb)
	if result == nil {
		result = &service.CallbackResult{TxnID: cb.TxnID, Status: model.PaymentStatusFailed}
	}
	origin := result.Origin
	if origin == "" {
		origin = h.paymentService.DefaultOrigin()
	}

	if err != nil {
		return c.Redirect(http.StatusFound, failureURL(origin, result, callbackErrorMessage(err)))
	}
	if result.Status != model.PaymentStatusCompleted {
		return c.Redirect(http.StatusFound, failureURL(origin, result, result.Reason))
	}
	return c.Redirect(http.StatusFound, successURL(origin, result))
}

func callbackFromForm(form url.Values) *model.PaymentCallback {
	raw := make(map[string]string, len(form))
	for k := range form {
		raw[k] = form.Get(k)
	}

	return &model.PaymentCallback{
		Status:       form.Get("status"),
		TxnID:        form.Get("txnid"),
		Amount:       form.Get("amount"),
		ProductInfo:  form.Get("productinfo"),
		FirstName:    form.Get("firstname"),
		Email:        form.Get("email"),
		Phone:        form.Get("phone"),
		Hash:         form.Get("hash"),
		PGType:       form.Get("PG_TYPE"),
		BankRefNum:   form.Get("bank_ref_num"),
		BankCode:     form.Get("bankcode"),
		Error:        form.Get("error"),
		ErrorMessage: form.Get("error_Message"),
		Raw:          raw,
	}
}

func callbackErrorMessage(err error) string {
	switch {
	case errors.Is(err, service.ErrMissingTransaction):
		return "Missing transaction ID"
	case errors.Is(err, service.ErrPaymentRecordNotFound):
		return "Transaction not found"
	case errors.Is(err, service.ErrInvalidCallbackHash):
		return "Invalid payment signature"
	default:
		var orderErr *service.OrderUpdateError
		if errors.As(err, &orderErr) {
			return "Payment received but order update failed"
		}
		return err.Error()
	}
}

func successURL(origin string, result *service.CallbackResult) string {
	return redirectURL(origin, "/payment-success", [][2]string{
		{"txnid", result.TxnID},
		{"status", "success"},
		{"orderId", result.OrderID},
		{"method", "online"},
	})
}

func failureURL(origin string, result *service.CallbackResult, message string) string {
	if message == "" {
		message = "Payment failed"
	}
	return redirectURL(origin, "/payment-failure", [][2]string{
		{"txnid", result.TxnID},
		{"status", "failed"},
		{"error", message},
		{"orderId", result.OrderID},
	})
}

// redirectURL keeps parameter order stable and encodes spaces as %20.
func redirectURL(origin, path string, params [][2]string) string {
	var b strings.Builder
	b.WriteString(strings.TrimRight(origin, "/"))
	b.WriteString(path)
	for i, p := range params {
		if i == 0 {
			b.WriteByte('?')
		} else {
			b.WriteByte('&')
		}
		b.WriteString(p[0])
		b.WriteByte('=')
		b.WriteString(strings.ReplaceAll(url.QueryEscape(p[1]), "+", "%20"))
	}
	return b.String()
}
