package service

import (
	"context"
	"errors"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/logger"
	"storefront-checkout/internal/repository"
	"storefront-checkout/internal/settings"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type SettingService interface {
	GetSetting(ctx context.Context, settingType string) (*dto.SettingResponse, error)
}

type settingServiceImpl struct {
	settingRepo repository.SettingRepository
}

func NewSettingService(settingRepo repository.SettingRepository) SettingService {
	return &settingServiceImpl{
		settingRepo: settingRepo,
	}
}

// GetSetting only fails for unknown types. Missing rows, broken payloads and storage errors all
// serve the type's default.
func (s *settingServiceImpl) GetSetting(ctx context.Context, settingType string) (*dto.SettingResponse, error) {
	t, err := settings.ParseType(settingType)
	if err != nil {
		return nil, err
	}
	log := logger.FromContext(ctx).With(zap.String("setting_type", string(t)))

	var payload []byte
	stored, err := s.settingRepo.FindByType(ctx, string(t))
	switch {
	case err == nil:
		payload = []byte(stored.Payload)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		log.Error("load setting, serving default", zap.Error(err))
	}

	value, isDefault, err := settings.Resolve(t, payload)
	if err != nil {
		log.Warn("stored setting does not decode, serving default", zap.Error(err))
	}

	return &dto.SettingResponse{
		Type:    string(t),
		Value:   value,
		Default: isDefault,
	}, nil
}

