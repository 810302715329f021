package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

type ShipmentRepository interface {
	// Claim inserts a pending shipment. A second claim for the same order fails with
	// gorm.ErrDuplicatedKey.
	Claim(ctx context.Context, shipment *model.Shipment) error
	FindByOrderID(ctx context.Context, orderID string) (*model.Shipment, error)
	// Reclaim takes over a failed shipment, or a pending one not touched since staleBefore.
	// false means another caller got it first or it is not reclaimable.
	Reclaim(ctx context.Context, shipmentID string, staleBefore time.Time) (bool, error)
	MarkCreated(ctx context.Context, tx *gorm.DB, shipment *model.Shipment) error
	MarkFailed(ctx context.Context, shipmentID string, reason string) error
}

type shipmentRepoImpl struct {
	db *gorm.DB
}

func NewShipmentRepository(db *gorm.DB) ShipmentRepository {
	return &shipmentRepoImpl{
		db: db,
	}
}

func (r *shipmentRepoImpl) Claim(ctx context.Context, shipment *model.Shipment) error {
	return r.db.WithContext(ctx).Create(shipment).Error
}

func (r *shipmentRepoImpl) FindByOrderID(ctx context.Context, orderID string) (*model.Shipment, error) {
	var shipment model.Shipment
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		First(&shipment).Error

	if err != nil {
		return nil, err
	}

	return &shipment, nil
}

func (r *shipmentRepoImpl) Reclaim(ctx context.Context, shipmentID string, staleBefore time.Time) (bool, error) {
	result := r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where(`
			id = ?
			AND (status = ? OR (status = ? AND updated_at < ?))
		`,
			shipmentID,
			model.ShipmentStatusFailed,
			model.ShipmentStatusPending,
			staleBefore,
		).
		Updates(map[string]interface{}{
			"status":     model.ShipmentStatusPending,
			"updated_at": time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}

func (r *shipmentRepoImpl) MarkCreated(ctx context.Context, tx *gorm.DB, shipment *model.Shipment) error {
	result := tx.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ? AND status = ?", shipment.ID, model.ShipmentStatusPending).
		Updates(map[string]interface{}{
			"external_shipment_id":  shipment.ExternalShipmentID,
			"tracking_number":       shipment.TrackingNumber,
			"carrier":               shipment.Carrier,
			"status":                model.ShipmentStatusCreated,
			"estimated_delivery_at": shipment.EstimatedDeliveryAt,
			"request_payload":       shipment.RequestPayload,
			"last_error":            "",
			"updated_at":            time.Now(),
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}

	shipment.Status = model.ShipmentStatusCreated
	shipment.LastError = ""
	return nil
}

func (r *shipmentRepoImpl) MarkFailed(ctx context.Context, shipmentID string, reason string) error {
	return r.db.WithContext(ctx).Model(&model.Shipment{}).
		Where("id = ?", shipmentID).
		Updates(map[string]interface{}{
			"status":     model.ShipmentStatusFailed,
			"last_error": reason,
			"updated_at": time.Now(),
		}).Error
}
