package handler

import (
	"errors"
	"net/http"
	"storefront-checkout/internal/service"
	"storefront-checkout/internal/settings"

	"github.com/labstack/echo/v4"
)

// httpError maps service errors onto status codes. The message is the service error's own text.
func httpError(err error) error {
	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr
	}

	code := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrAuthentication):
		code = http.StatusUnauthorized
	case errors.Is(err, service.ErrOrderNotFound), errors.Is(err, settings.ErrUnknownType):
		code = http.StatusNotFound
	case errors.Is(err, service.ErrOrderAlreadyPaid), errors.Is(err, service.ErrOrderNotPaid):
		code = http.StatusConflict
	case errors.Is(err, service.ErrAmountMismatch), errors.Is(err, service.ErrInvalidQuantity),
		errors.Is(err, errBadRequest):
		code = http.StatusBadRequest
	}
	return echo.NewHTTPError(code, err.Error()).SetInternal(err)
}

var errBadRequest = errors.New("invalid request body")
