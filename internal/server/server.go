package server

import (
	"context"
	"errors"
	"net/http"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/handler"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/middleware"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

type Services struct {
	Payment  service.PaymentService
	Shipment service.ShipmentService
	Order    service.OrderService
	Cart     service.CartService
	Setting  service.SettingService
}

type Options struct {
	JWTSecret      []byte
	AllowedOrigins []string
}

type Server struct {
	echo            *echo.Echo
	opts            Options
	paymentHandler  *handler.PaymentHandler
	shipmentHandler *handler.ShipmentHandler
	orderHandler    *handler.OrderHandler
	cartHandler     *handler.CartHandler
	settingHandler  *handler.SettingHandler
}

func NewServer(log *zap.Logger, services Services, opts Options) *Server {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.HTTPErrorHandler = errorHandler

	e.Use(echomw.RequestID())
	e.Use(middleware.ContextLogger(log))
	e.Use(middleware.RequestLogger())
	e.Use(echomw.Recover())

	cors := echomw.DefaultCORSConfig
	if len(opts.AllowedOrigins) > 0 {
		cors.AllowOrigins = opts.AllowedOrigins
	}
	e.Use(echomw.CORSWithConfig(cors))

	s := &Server{
		echo:            e,
		opts:            opts,
		paymentHandler:  handler.NewPaymentHandler(services.Payment),
		shipmentHandler: handler.NewShipmentHandler(services.Shipment),
		orderHandler:    handler.NewOrderHandler(services.Order),
		cartHandler:     handler.NewCartHandler(services.Cart),
		settingHandler:  handler.NewSettingHandler(services.Setting),
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	api := s.echo.Group("/api")

	api.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok"})
	})

	api.GET("/settings/:type", s.settingHandler.GetSetting)

	// -------- gateway callbacks --------
	api.Match([]string{http.MethodGet, http.MethodPost}, "/payments/callback", s.paymentHandler.PaymentCallback)

	auth := middleware.AuthMiddleware(s.opts.JWTSecret)

	api.POST("/payments/initiate", s.paymentHandler.InitiatePayment, auth)
	api.POST("/shipments", s.shipmentHandler.CreateShipment, auth)
	api.GET("/orders/:id", s.orderHandler.GetOrder, auth)

	// -------- cart --------
	api.GET("/cart", s.cartHandler.GetCart, auth)
	api.POST("/cart/items", s.cartHandler.AddItem, auth)
	api.PUT("/cart/items", s.cartHandler.UpdateItem, auth)
	api.DELETE("/cart/items", s.cartHandler.RemoveItem, auth)
}

func (s *Server) Handler() http.Handler {
	return s.echo
}

func (s *Server) Start(address string) error {
	return s.echo.Start(address)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.echo.Shutdown(ctx)
}

// errorHandler renders every error as {"error": message}.
func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var httpErr *echo.HTTPError
	if errors.As(err, &httpErr) {
		code = httpErr.Code
		if m, ok := httpErr.Message.(string); ok {
			message = m
		} else {
			message = http.StatusText(code)
		}
	}

	if code >= http.StatusInternalServerError {
		logger.FromContext(c.Request().Context()).Error("request failed", zap.Error(err))
	}

	if c.Request().Method == http.MethodHead {
		err = c.NoContent(code)
	} else {
		err = c.JSON(code, &dto.ErrorResponse{Error: message})
	}
	if err != nil {
		logger.FromContext(c.Request().Context()).Warn("write error response", zap.Error(err))
	}
}
