package service

import (
	"context"
	"errors"
	"fmt"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/repository"

	"gorm.io/gorm"
)

type OrderService interface {
	// GetOrderView returns ErrOrderNotFound for orders of other users as well.
	GetOrderView(ctx context.Context, userID, orderID string) (*dto.OrderView, error)
}

type orderServiceImpl struct {
	orderRepo    repository.OrderRepository
	shipmentRepo repository.ShipmentRepository
	trackingRepo repository.TrackingRepository
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	shipmentRepo repository.ShipmentRepository,
	trackingRepo repository.TrackingRepository,
) OrderService {
	return &orderServiceImpl{
		orderRepo:    orderRepo,
		shipmentRepo: shipmentRepo,
		trackingRepo: trackingRepo,
	}
}

func (s *orderServiceImpl) GetOrderView(ctx context.Context, userID, orderID string) (*dto.OrderView, error) {
	if userID == "" {
		return nil, ErrAuthentication
	}

	order, err := s.orderRepo.FindWithItems(ctx, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOrderNotFound
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	if order.UserID != userID {
		return nil, ErrOrderNotFound
	}

	view := &dto.OrderView{Order: order}

	shipment, err := s.shipmentRepo.FindByOrderID(ctx, orderID)
	switch {
	case err == nil:
		view.Shipment = shipment
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get shipment: %w", err)
	}

	view.Tracking, err = s.trackingRepo.ListByOrder(ctx, orderID)
	if err != nil {
		return nil, fmt.Errorf("list tracking: %w", err)
	}

	return view, nil
}
