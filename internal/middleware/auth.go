package middleware

import (
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const userIDKey = "user_id"

// AuthMiddleware accepts an HS256 bearer token and exposes its subject as the user id.
func AuthMiddleware(secret []byte) echo.MiddlewareFunc {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			auth := c.Request().Header.Get(echo.HeaderAuthorization)
			tokenStr, ok := strings.CutPrefix(auth, "Bearer ")
			if !ok || tokenStr == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			claims := &jwt.RegisteredClaims{}
			token, err := parser.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
				return secret, nil
			})
			if err != nil || !token.Valid || claims.Subject == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "authentication required")
			}

			c.Set(userIDKey, claims.Subject)
			return next(c)
		}
	}
}

// UserID is empty when the request did not pass AuthMiddleware.
func UserID(c echo.Context) string {
	id, _ := c.Get(userIDKey).(string)
	return id
}
