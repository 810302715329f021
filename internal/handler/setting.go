package handler

import (
	"net/http"
	"storefront-checkout/internal/service"

	"github.com/labstack/echo/v4"
)

type SettingHandler struct {
	settingService service.SettingService
}

func NewSettingHandler(settingService service.SettingService) *SettingHandler {
	return &SettingHandler{
		settingService: settingService,
	}
}

func (h *SettingHandler) GetSetting(c echo.Context) error {
	ctx := c.Request().Context()

	setting, err := h.settingService.GetSetting(ctx, c.Param("type"))
	if err != nil {
		return httpError(err)
	}

	return c.JSON(http.StatusOK, setting)
}
