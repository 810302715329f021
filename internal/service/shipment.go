package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"storefront-checkout/internal/client"
	"storefront-checkout/internal/events"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/model"
	"storefront-checkout/internal/repository"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const shipmentCreatedMessage = "Shipment Created"

// Package estimate: not a rate card, a per-unit heuristic.
var (
	weightPerUnitKg = decimal.RequireFromString("0.5")
	minWeightKg     = decimal.RequireFromString("0.5")
)

const (
	packageLengthCm     = 20
	packageBreadthCm    = 15
	packageBaseHeightCm = 5
	heightPerUnitCm     = 2
)

// claimLease is how long a pending shipment belongs to the caller that claimed it. A claim older
// than this was abandoned mid-flight and may be taken over.
const claimLease = 5 * time.Minute

type ShipmentService interface {
	// CreateShipment is idempotent per order. created is false when an existing shipment was returned.
	CreateShipment(ctx context.Context, orderID string) (shipment *model.Shipment, created bool, err error)
}

type shipmentServiceImpl struct {
	db           *gorm.DB
	carrier      client.CarrierClient
	pickup       model.Address
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	trackingRepo repository.TrackingRepository
	publisher    events.Publisher
	now          func() time.Time
}

func NewShipmentService(
	db *gorm.DB,
	carrier client.CarrierClient,
	pickup model.Address,
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	trackingRepo repository.TrackingRepository,
	publisher events.Publisher,
) ShipmentService {
	return &shipmentServiceImpl{
		db:           db,
		carrier:      carrier,
		pickup:       pickup,
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		trackingRepo: trackingRepo,
		publisher:    publisher,
		now:          time.Now,
	}
}

func (s *shipmentServiceImpl) CreateShipment(ctx context.Context, orderID string) (*model.Shipment, bool, error) {
	log := logger.FromContext(ctx).With(zap.String("order_id", orderID))

	shipment, created, err := s.createShipment(ctx, orderID)
	if err != nil {
		log.Error("shipment creation failed, manual shipment required", zap.Error(err))
		return nil, false, &ShipmentCreationError{OrderID: orderID, Err: err}
	}

	if created {
		log.Info("shipment created",
			zap.String("shipment_id", shipment.ExternalShipmentID),
			zap.String("tracking_number", shipment.TrackingNumber))
	}
	return shipment, created, nil
}

func (s *shipmentServiceImpl) createShipment(ctx context.Context, orderID string) (*model.Shipment, bool, error) {
	order, err := s.orderRepo.FindWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, ErrOrderNotFound
		}
		return nil, false, fmt.Errorf("get order: %w", err)
	}
	if order.PaymentStatus != model.PaymentStatusCompleted {
		return nil, false, ErrOrderNotPaid
	}

	shipment, claimed, err := s.claim(ctx, order)
	if err != nil {
		return nil, false, err
	}
	if !claimed {
		return shipment, false, nil
	}

	req := s.carrierRequest(order)
	payload, err := json.Marshal(req)
	if err != nil {
		return nil, false, fmt.Errorf("marshal carrier request: %w", err)
	}

	result, err := s.carrier.CreateShipment(ctx, req)
	if err != nil {
		s.markFailed(ctx, shipment, err)
		return nil, false, fmt.Errorf("carrier create shipment: %w", err)
	}

	eta := result.EstimatedDelivery
	shipment.ExternalShipmentID = result.ShipmentID
	shipment.TrackingNumber = result.TrackingNumber
	shipment.Carrier = s.carrier.Name()
	shipment.EstimatedDeliveryAt = &eta
	shipment.RequestPayload = string(payload)

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.shipmentRepo.MarkCreated(ctx, tx, shipment); err != nil {
			return fmt.Errorf("store shipment: %w", err)
		}
		if err := s.orderRepo.MarkProcessing(ctx, tx, order.ID); err != nil {
			return fmt.Errorf("mark order processing: %w", err)
		}
		return s.trackingRepo.Append(ctx, tx, &model.OrderTracking{
			OrderID:             order.ID,
			Status:              fmt.Sprintf("%s - Tracking Number: %s", shipmentCreatedMessage, result.TrackingNumber),
			TrackingNumber:      result.TrackingNumber,
			Carrier:             shipment.Carrier,
			EstimatedDeliveryAt: &eta,
		})
	})
	if err != nil {
		// the carrier already holds this shipment; record it so an operator can reconcile
		s.markFailed(ctx, shipment, fmt.Errorf("carrier shipment %s not recorded: %w", result.ShipmentID, err))
		return nil, false, err
	}

	s.publish(ctx, events.Event{
		Type:           events.ShipmentCreated,
		OrderID:        order.ID,
		TrackingNumber: shipment.TrackingNumber,
	})

	return shipment, true, nil
}

// claim takes ownership of the order's single shipment row. It returns claimed=false with the
// existing shipment when that one is created or still within another caller's lease.
func (s *shipmentServiceImpl) claim(ctx context.Context, order *model.Order) (*model.Shipment, bool, error) {
	weight, length, breadth, height := estimatePackage(order.ItemCount())
	shipment := &model.Shipment{
		ID:              uuid.NewString(),
		OrderID:         order.ID,
		Status:          model.ShipmentStatusPending,
		PickupAddress:   s.pickup,
		DeliveryAddress: order.ShippingAddress,
		WeightKg:        weight,
		LengthCm:        length,
		BreadthCm:       breadth,
		HeightCm:        height,
	}

	err := s.shipmentRepo.Claim(ctx, shipment)
	if err == nil {
		return shipment, true, nil
	}
	if !errors.Is(err, gorm.ErrDuplicatedKey) {
		return nil, false, fmt.Errorf("claim shipment: %w", err)
	}

	existing, err := s.shipmentRepo.FindByOrderID(ctx, order.ID)
	if err != nil {
		return nil, false, fmt.Errorf("get existing shipment: %w", err)
	}
	staleBefore := s.now().Add(-claimLease)
	switch existing.Status {
	case model.ShipmentStatusCreated:
		return existing, false, nil
	case model.ShipmentStatusPending:
		if !existing.UpdatedAt.Before(staleBefore) {
			return existing, false, nil
		}
	}

	reclaimed, err := s.shipmentRepo.Reclaim(ctx, existing.ID, staleBefore)
	if err != nil {
		return nil, false, fmt.Errorf("reclaim shipment: %w", err)
	}
	if !reclaimed {
		return existing, false, nil
	}
	existing.Status = model.ShipmentStatusPending
	return existing, true, nil
}

// markFailed must land even when ctx is what failed the carrier call, or the claim stays pending.
func (s *shipmentServiceImpl) markFailed(ctx context.Context, shipment *model.Shipment, cause error) {
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
	defer cancel()

	if err := s.shipmentRepo.MarkFailed(ctx, shipment.ID, cause.Error()); err != nil {
		logger.FromContext(ctx).Error("mark shipment failed",
			zap.String("shipment_id", shipment.ID), zap.Error(err))
	}
}

func (s *shipmentServiceImpl) carrierRequest(order *model.Order) *client.ShipmentRequest {
	weight, length, breadth, height := estimatePackage(order.ItemCount())

	items := make([]client.ShipmentItem, 0, len(order.Items))
	for _, item := range order.Items {
		name, sku := item.ProductID, item.ProductID
		if item.Product != nil {
			name, sku = item.Product.Name, item.Product.SKU
		}
		if item.Variant != nil {
			name = name + " - " + item.Variant.Name
			sku = item.Variant.SKU
		}
		items = append(items, client.ShipmentItem{
			Name:         name,
			SKU:          sku,
			Units:        item.Quantity,
			SellingPrice: item.UnitPrice,
		})
	}

	return &client.ShipmentRequest{
		OrderID:       order.ID,
		OrderDate:     order.CreatedAt,
		PaymentMethod: string(order.PaymentMethod),
		Pickup:        s.pickup,
		Delivery:      order.ShippingAddress,
		Items:         items,
		SubTotal:      order.TotalAmount,
		WeightKg:      weight,
		LengthCm:      length,
		BreadthCm:     breadth,
		HeightCm:      height,
	}
}

func (s *shipmentServiceImpl) publish(ctx context.Context, event events.Event) {
	event.OccurredAt = s.now().UTC()
	if err := s.publisher.Publish(ctx, event); err != nil {
		logger.FromContext(ctx).Warn("publish order event", zap.String("type", string(event.Type)), zap.Error(err))
	}
}

func estimatePackage(units int32) (weightKg decimal.Decimal, lengthCm, breadthCm, heightCm int32) {
	weightKg = weightPerUnitKg.Mul(decimal.NewFromInt32(units))
	if weightKg.LessThan(minWeightKg) {
		weightKg = minWeightKg
	}
	return weightKg, packageLengthCm, packageBreadthCm, packageBaseHeightCm + heightPerUnitCm*units
}
