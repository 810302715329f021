package handler

import (
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type ShipmentHandler struct {
	shipmentService service.ShipmentService
}

func NewShipmentHandler(shipmentService service.ShipmentService) *ShipmentHandler {
	return &ShipmentHandler{
		shipmentService: shipmentService,
	}
}

func (h *ShipmentHandler) CreateShipment(c echo.Context) error {
	ctx := c.Request().Context()

	var req dto.CreateShipmentRequest
	if err := c.Bind(&req); err != nil || req.OrderID == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "orderId is required")
	}

	shipment, created, err := h.shipmentService.CreateShipment(ctx, req.OrderID)
	if err != nil {
		return httpError(err)
	}

	message := "Shipment created successfully"
	if !created {
		message = "Shipment already exists"
	}

	return c.JSON(http.StatusOK, &dto.CreateShipmentResponse{
		Success:  true,
		Shipment: shipment,
		Message:  message,
	})
}
