package repository

import (
	"context"
	"storefront-checkout/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SettingRepository interface {
	FindByType(ctx context.Context, settingType string) (*model.ContentSetting, error)
	Upsert(ctx context.Context, setting *model.ContentSetting) error
}

type settingRepoImpl struct {
	db *gorm.DB
}

func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepoImpl{
		db: db,
	}
}

func (r *settingRepoImpl) FindByType(ctx context.Context, settingType string) (*model.ContentSetting, error) {
	var setting model.ContentSetting
	err := r.db.WithContext(ctx).
		Where("setting_type = ?", settingType).
		First(&setting).Error

	if err != nil {
		return nil, err
	}

	return &setting, nil
}

func (r *settingRepoImpl) Upsert(ctx context.Context, setting *model.ContentSetting) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "setting_type"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"payload":    setting.Payload,
			"updated_at": time.Now(),
		}),
	}).Create(setting).Error
}
