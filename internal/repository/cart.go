package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var cartKey = []clause.Column{{Name: "user_id"}, {Name: "product_id"}, {Name: "variant_id"}}

type CartRepository interface {
	List(ctx context.Context, userID string) ([]*model.CartItem, error)
	// Add increments the line by item.Quantity in a single statement, creating it if needed.
	Add(ctx context.Context, item *model.CartItem) (*model.CartItem, error)
	SetQuantity(ctx context.Context, item *model.CartItem) error
	Remove(ctx context.Context, userID, productID, variantID string) error
}

type cartRepoImpl struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) CartRepository {
	return &cartRepoImpl{
		db: db,
	}
}

func (r *cartRepoImpl) List(ctx context.Context, userID string) ([]*model.CartItem, error) {
	var items []*model.CartItem

	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at, product_id, variant_id").
		Find(&items).Error
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (r *cartRepoImpl) Add(ctx context.Context, item *model.CartItem) (*model.CartItem, error) {
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: cartKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   gorm.Expr("cart_items.quantity + ?", item.Quantity),
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
	if err != nil {
		return nil, err
	}

	var stored model.CartItem
	err = r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND variant_id = ?", item.UserID, item.ProductID, item.VariantID).
		First(&stored).Error
	if err != nil {
		return nil, err
	}

	return &stored, nil
}

func (r *cartRepoImpl) SetQuantity(ctx context.Context, item *model.CartItem) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: cartKey,
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity":   item.Quantity,
			"updated_at": time.Now(),
		}),
	}).Create(item).Error
}

func (r *cartRepoImpl) Remove(ctx context.Context, userID, productID, variantID string) error {
	return r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ? AND variant_id = ?", userID, productID, variantID).
		Delete(&model.CartItem{}).Error
}
