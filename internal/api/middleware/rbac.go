package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// RBAC restricts a route group to the given portal roles.
func RBAC(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[string(r)] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role, _ := c.Get(CtxRole).(string)
			if _, ok := allowed[role]; !ok {
				return c.JSON(http.StatusForbidden, map[string]string{"error": "forbidden"})
			}
			return next(c)
		}
	}
}
