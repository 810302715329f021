package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

type OrderRepository interface {
	Create(ctx context.Context, tx *gorm.DB, order *model.Order) error
	FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error)
	FindWithItems(ctx context.Context, orderID string) (*model.Order, error)
	ApplyPaymentOutcome(ctx context.Context, tx *gorm.DB, orderID string, outcome model.PaymentStatus) error
	MarkProcessing(ctx context.Context, tx *gorm.DB, orderID string) error
}

type orderRepoImpl struct {
	db *gorm.DB
}

func NewOrderRepository(db *gorm.DB) OrderRepository {
	return &orderRepoImpl{
		db: db,
	}
}

func (r *orderRepoImpl) Create(ctx context.Context, tx *gorm.DB, order *model.Order) error {
	return tx.WithContext(ctx).Create(order).Error
}

func (r *orderRepoImpl) FindByID(ctx context.Context, tx *gorm.DB, orderID string) (*model.Order, error) {
	var order model.Order
	err := tx.WithContext(ctx).
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (r *orderRepoImpl) FindWithItems(ctx context.Context, orderID string) (*model.Order, error) {
	var order model.Order
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("id") }).
		Preload("Items.Product").
		Preload("Items.Variant").
		Where("id = ?", orderID).
		First(&order).Error

	if err != nil {
		return nil, err
	}

	return &order, nil
}

// ApplyPaymentOutcome mirrors a terminal payment result onto the order. It never touches an order
// whose payment already completed, so replays and late failures of other attempts are no-ops.
func (r *orderRepoImpl) ApplyPaymentOutcome(ctx context.Context, tx *gorm.DB, orderID string, outcome model.PaymentStatus) error {
	status := model.OrderStatusPaymentFailed
	if outcome == model.PaymentStatusCompleted {
		status = model.OrderStatusConfirmed
	}

	return tx.WithContext(ctx).Model(&model.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, model.PaymentStatusCompleted).
		Updates(map[string]interface{}{
			"payment_status": outcome,
			"status":         status,
			"updated_at":     time.Now(),
		}).Error
}

func (r *orderRepoImpl) MarkProcessing(ctx context.Context, tx *gorm.DB, orderID string) error {
	return tx.WithContext(ctx).Model(&model.Order{}).
		Where(`
			id = ?
			AND payment_status = ?
			AND status = ?
		`,
			orderID,
			model.PaymentStatusCompleted,
			model.OrderStatusConfirmed,
		).
		Updates(map[string]interface{}{
			"status":     model.OrderStatusProcessing,
			"updated_at": time.Now(),
		}).Error
}
