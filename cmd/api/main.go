package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/config"
	"storefront-checkout/internal/events"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/server"
	"storefront-checkout/internal/service"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

func main() {
	// load .env into os.Environ
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found (ok in prod)")
	}

	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Printf("Failed to build logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	if cfg.PayU.MockMode {
		log.Warn("PayU mock mode is on, payments are simulated")
	}
	if cfg.Carrier.MockMode {
		log.Warn("carrier mock mode is on, shipments are simulated")
	}

	db, err := client.InitDBClient(cfg.Database)
	if err != nil {
		log.Fatal("failed to open database", zap.Error(err))
	}

	payuClient := client.NewPayUClient(&cfg.PayU)
	carrierClient := client.NewCarrierClient(&cfg.Carrier)

	publisher := events.NewPublisher(cfg.Kafka)
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn("close event publisher", zap.Error(err))
		}
	}()

	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	trackingRepo := repository.NewTrackingRepository(db)
	cartRepo := repository.NewCartRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	shipmentService := service.NewShipmentService(
		db, carrierClient, pickupAddress(cfg.Carrier.Pickup),
		orderRepo,
		shipmentRepo,
		trackingRepo,
		publisher,
	)

	paymentService := service.NewPaymentService(
		db, payuClient,
		service.PaymentOptions{
			BaseURL:            cfg.BaseURL,
			StorefrontURL:      cfg.StorefrontURL,
			AllowedOrigins:     cfg.AllowedOrigins,
			VerifyCallbackHash: cfg.PayU.VerifyCallbackHash,
		},
		orderRepo,
		paymentRepo,
		shipmentService,
		publisher,
	)

	srv := server.NewServer(log, server.Services{
		Payment:  paymentService,
		Shipment: shipmentService,
		Order:    service.NewOrderService(orderRepo, shipmentRepo, trackingRepo),
		Cart:     service.NewCartService(cartRepo),
		Setting:  service.NewSettingService(settingRepo),
	}, server.Options{
		JWTSecret:      []byte(cfg.Auth.JWTSecret),
		AllowedOrigins: append([]string{cfg.StorefrontURL}, cfg.AllowedOrigins...),
	})

	serverAddr := cfg.HTTP.Host + ":" + cfg.HTTP.Port

	log.Info("starting HTTP server", zap.String("addr", serverAddr), zap.String("environment", cfg.Environment.Name))
	go func() {
		if err := srv.Start(serverAddr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGTERM, syscall.SIGINT)

	<-sigChan
	log.Info("signal received, starting graceful shutdown")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server shutdown error", zap.Error(err))
	}
}

func pickupAddress(a config.Address) model.Address {
	return model.Address{
		Name:       a.Name,
		Phone:      a.Phone,
		Line1:      a.Line1,
		Line2:      a.Line2,
		City:       a.City,
		State:      a.State,
		PostalCode: a.PostalCode,
		Country:    a.Country,
	}
}
