package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
)

type PaymentRepository interface {
	Create(ctx context.Context, payment *model.Payment) error
	FindByPaymentID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error)
	// Transition moves a pending payment to a terminal status. It reports false when the payment
	// was no longer pending, in which case nothing was written.
	Transition(ctx context.Context, tx *gorm.DB, paymentID string, to model.PaymentStatus, gatewayResponse string) (bool, error)
}

type paymentRepoImpl struct {
	db *gorm.DB
}

func NewPaymentRepository(db *gorm.DB) PaymentRepository {
	return &paymentRepoImpl{
		db: db,
	}
}

func (r *paymentRepoImpl) Create(ctx context.Context, payment *model.Payment) error {
	return r.db.WithContext(ctx).Create(payment).Error
}

func (r *paymentRepoImpl) FindByPaymentID(ctx context.Context, tx *gorm.DB, paymentID string) (*model.Payment, error) {
	var payment model.Payment
	err := tx.WithContext(ctx).
		Where("payment_id = ?", paymentID).
		First(&payment).Error

	if err != nil {
		return nil, err
	}

	return &payment, nil
}

func (r *paymentRepoImpl) Transition(ctx context.Context, tx *gorm.DB, paymentID string, to model.PaymentStatus, gatewayResponse string) (bool, error) {
	result := tx.WithContext(ctx).Model(&model.Payment{}).
		Where("payment_id = ? AND status = ?", paymentID, model.PaymentStatusPending).
		Updates(map[string]interface{}{
			"status":           to,
			"gateway_response": gatewayResponse,
			"updated_at":       time.Now(),
		})

	if result.Error != nil {
		return false, result.Error
	}

	return result.RowsAffected == 1, nil
}
