package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

// Context keys populated by Auth for downstream handlers.
const (
	CtxEmail   = "email"
	CtxRole    = "role"
	CtxTokenID = "token_id"
)

// RevocationChecker reports whether a token id has been logged out.
type RevocationChecker interface {
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Auth validates the bearer JWT, rejects revoked tokens and injects the
// account email, role and token id into the request context.
func Auth(jwtSecret string, revoked RevocationChecker) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			authHeader := c.Request().Header.Get("Authorization")
			if authHeader == "" {
				return echo.NewHTTPError(http.StatusUnauthorized, "missing authorization header")
			}

			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
			}

			claims := jwt.MapClaims{}
			tkn, err := jwt.ParseWithClaims(parts[1], claims, func(token *jwt.Token) (interface{}, error) {
				if token.Method.Alg() != jwt.SigningMethodHS256.Alg() {
					return nil, jwt.ErrTokenSignatureInvalid
				}
				return []byte(jwtSecret), nil
			})
			if err != nil || !tkn.Valid {
				return echo.NewHTTPError(http.StatusUnauthorized, "invalid token")
			}

			tokenID, _ := claims["jti"].(string)
			if revoked != nil && tokenID != "" {
				gone, err := revoked.IsRevoked(c.Request().Context(), tokenID)
				if err != nil {
					return echo.NewHTTPError(http.StatusInternalServerError, "revocation check failed")
				}
				if gone {
					return echo.NewHTTPError(http.StatusUnauthorized, "token revoked")
				}
			}

			c.Set(CtxEmail, claims["sub"])
			c.Set(CtxRole, claims["role"])
			c.Set(CtxTokenID, tokenID)

			return next(c)
		}
	}
}
