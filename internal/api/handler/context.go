package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/api/middleware"
)

// ctxIdentity extracts the auth claims injected by the Auth middleware and
// performs a fast-fail check before any service call: both email and role
// must be present, since every protected operation is scoped to the caller's
// account.
func ctxIdentity(c echo.Context) (email, role string, err error) {
	email, _ = c.Get(middleware.CtxEmail).(string)
	role, _ = c.Get(middleware.CtxRole).(string)
	if email == "" || role == "" {
		return "", "", echo.NewHTTPError(http.StatusUnauthorized, "missing authentication claims")
	}
	return email, role, nil
}
