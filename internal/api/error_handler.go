package api

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edocportal/portal-api/internal/core/domain"
)

// errorResponse is the canonical error envelope for all API errors.
type errorResponse struct {
	Error string `json:"error"`
}

// NewHTTPErrorHandler returns an echo.HTTPErrorHandler that:
//   - Maps known domain errors to their appropriate HTTP status codes.
//   - Logs unexpected errors internally without leaking details to the client.
//   - Renders a consistent JSON envelope: {"error": "<message>"}.
//
// uploadLimit is the configured body-limit string (e.g. "2M"); it is named
// in the 413 response so clients know how large an upload may be.
func NewHTTPErrorHandler(log zerolog.Logger, uploadLimit string) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code, msg := resolveError(err, log, c, uploadLimit)
		_ = c.JSON(code, errorResponse{Error: msg})
	}
}

func resolveError(err error, log zerolog.Logger, c echo.Context, uploadLimit string) (int, string) {
	// Echo's own errors (bind failures, 404 from router, 413 from body limit).
	var he *echo.HTTPError
	if errors.As(err, &he) {
		if he.Code == http.StatusRequestEntityTooLarge {
			return he.Code, fmt.Sprintf("uploaded files exceed the %s size limit", uploadLimit)
		}
		return he.Code, fmt.Sprintf("%v", he.Message)
	}

	// Known domain errors → deterministic HTTP codes.
	switch {
	case errors.Is(err, domain.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid credentials"
	case errors.Is(err, domain.ErrAccountDisabled):
		return http.StatusUnauthorized, "account is not active"
	case errors.Is(err, domain.ErrWrongPortal):
		return http.StatusUnauthorized, "account cannot sign in on this portal"
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden, "access forbidden"
	case errors.Is(err, domain.ErrNotAssigned):
		return http.StatusForbidden, "application is assigned to another operator"
	case errors.Is(err, domain.ErrAccountNotFound):
		return http.StatusNotFound, "account not found"
	case errors.Is(err, domain.ErrApplicationNotFound):
		return http.StatusNotFound, "application not found"
	case errors.Is(err, domain.ErrDocumentNotFound):
		return http.StatusNotFound, "document not found"
	case errors.Is(err, domain.ErrIssuedNotAvailable):
		return http.StatusNotFound, "issued document not available"
	case errors.Is(err, domain.ErrEmailTaken):
		return http.StatusConflict, "email already registered"
	case errors.Is(err, domain.ErrMobileTaken):
		return http.StatusConflict, "mobile number already registered"
	case errors.Is(err, domain.ErrCscIDTaken):
		return http.StatusConflict, "csc id already registered"
	case errors.Is(err, domain.ErrCscNotAvailable):
		return http.StatusUnprocessableEntity, "selected csc center is not available"
	case errors.Is(err, domain.ErrInvalidStatus):
		return http.StatusBadRequest, "unrecognized application status"
	case errors.Is(err, domain.ErrNotPDF):
		return http.StatusBadRequest, "issued document must be a PDF file"
	case errors.Is(err, domain.ErrInvalidDocumentID):
		return http.StatusBadRequest, "invalid document id"
	}

	// Unexpected error: log the real cause, return a generic message.
	log.Error().
		Err(err).
		Str("method", c.Request().Method).
		Str("path", c.Path()).
		Msg("unhandled error")

	return http.StatusInternalServerError, "internal server error"
}
