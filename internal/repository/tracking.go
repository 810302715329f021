package repository

import (
	"context"
	"storefront-checkout/internal/model"

	"gorm.io/gorm"
)

// TrackingRepository only appends and reads; tracking rows are the customer's audit trail.
type TrackingRepository interface {
	Append(ctx context.Context, tx *gorm.DB, event *model.OrderTracking) error
	ListByOrder(ctx context.Context, orderID string) ([]*model.OrderTracking, error)
}

type trackingRepoImpl struct {
	db *gorm.DB
}

func NewTrackingRepository(db *gorm.DB) TrackingRepository {
	return &trackingRepoImpl{
		db: db,
	}
}

func (r *trackingRepoImpl) Append(ctx context.Context, tx *gorm.DB, event *model.OrderTracking) error {
	return tx.WithContext(ctx).Create(event).Error
}

func (r *trackingRepoImpl) ListByOrder(ctx context.Context, orderID string) ([]*model.OrderTracking, error) {
	var events []*model.OrderTracking
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at, id").
		Find(&events).Error

	if err != nil {
		return nil, err
	}

	return events, nil
}
