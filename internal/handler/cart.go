package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type CartHandler struct {
	cartService service.CartService
}

func NewCartHandler(cartService service.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

func (h *CartHandler) GetCart(c echo.Context) error {
	ctx := c.Request().Context()

	cart, err := h.cartService.GetCart(ctx, middleware.UserID(c))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, cart)
}

func (h *CartHandler) AddItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return httpError(errBadRequest)
	}

	item, err := h.cartService.AddItem(ctx, middleware.UserID(c), &req)
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, item)
}

func (h *CartHandler) UpdateItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return httpError(errBadRequest)
	}

	if err := h.cartService.UpdateItem(ctx, middleware.UserID(c), &req); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}

func (h *CartHandler) RemoveItem(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CartItemRequest
	if err := c.Bind(&req); err != nil {
		return httpError(errBadRequest)
	}

	if err := h.cartService.RemoveItem(ctx, middleware.UserID(c), req.ProductID, req.VariantID); err != nil {
		return httpError(err)
	}

	return c.NoContent(http.StatusNoContent)
}
