package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"storefront-checkout/internal/dto"
	"storefront-checkout/internal/settings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type fakeSettingService struct{}

func (fakeSettingService) GetSetting(ctx context.Context, settingType string) (*dto.SettingResponse, error) {
	if _, err := settings.ParseType(settingType); err != nil {
		return nil, err
	}
	return &dto.SettingResponse{Type: settingType, Value: settings.HeroBanner{}, Default: true}, nil
}

func newTestServer() *Server {
	return NewServer(zap.NewNop(), Services{Setting: fakeSettingService{}}, Options{JWTSecret: []byte("secret")})
}

func do(t *testing.T, s *Server, method, target, token string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	req := httptest.NewRequest(method, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	body := map[string]any{}
	if rec.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	}
	return rec, body
}

func TestHealth(t *testing.T) {
	rec, body := do(t, newTestServer(), http.MethodGet, "/api/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", body["status"])
	assert.NotEmpty(t, rec.Header().Get("X-Request-Id"))
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	s := newTestServer()
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "user-1",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	for _, route := range [][2]string{
		{http.MethodPost, "/api/payments/initiate"},
		{http.MethodPost, "/api/shipments"},
		{http.MethodGet, "/api/orders/O1"},
		{http.MethodGet, "/api/cart"},
		{http.MethodDelete, "/api/cart/items"},
	} {
		for _, token := range []string{"", expired} {
			rec, body := do(t, s, route[0], route[1], token)
			assert.Equal(t, http.StatusUnauthorized, rec.Code, route[1])
			assert.Equal(t, "authentication required", body["error"], route[1])
		}
	}
}

func TestSettingsRoute(t *testing.T) {
	s := newTestServer()

	rec, body := do(t, s, http.MethodGet, "/api/settings/hero-banner", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, body["default"])

	rec, body = do(t, s, http.MethodGet, "/api/settings/footer", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, body["error"], "unknown setting type")
}

func TestUnknownRouteRendersJSONError(t *testing.T) {
	rec, body := do(t, newTestServer(), http.MethodGet, "/api/nope", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not Found", body["error"])
}
