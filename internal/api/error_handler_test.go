package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/edocportal/portal-api/internal/core/domain"
)

func TestHTTPErrorHandler_DomainMapping(t *testing.T) {
	cases := []struct {
		name string
		err  error
		code int
	}{
		{"invalid credentials", domain.ErrInvalidCredentials, http.StatusUnauthorized},
		{"disabled account", domain.ErrAccountDisabled, http.StatusUnauthorized},
		{"wrong portal", domain.ErrWrongPortal, http.StatusUnauthorized},
		{"forbidden", domain.ErrForbidden, http.StatusForbidden},
		{"not assigned", domain.ErrNotAssigned, http.StatusForbidden},
		{"application missing", domain.ErrApplicationNotFound, http.StatusNotFound},
		{"document missing", domain.ErrDocumentNotFound, http.StatusNotFound},
		{"issued missing", domain.ErrIssuedNotAvailable, http.StatusNotFound},
		{"email taken", domain.ErrEmailTaken, http.StatusConflict},
		{"csc id taken", domain.ErrCscIDTaken, http.StatusConflict},
		{"csc unavailable", domain.ErrCscNotAvailable, http.StatusUnprocessableEntity},
		{"bad status", domain.ErrInvalidStatus, http.StatusBadRequest},
		{"not pdf", domain.ErrNotPDF, http.StatusBadRequest},
		{"bad document id", domain.ErrInvalidDocumentID, http.StatusBadRequest},
	}

	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop(), "2M")

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			rec := httptest.NewRecorder()
			c := e.NewContext(req, rec)

			handler(tc.err, c)

			if rec.Code != tc.code {
				t.Fatalf("expected %d, got %d", tc.code, rec.Code)
			}
			var resp errorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid envelope: %v", err)
			}
			if resp.Error == "" {
				t.Fatalf("empty error message")
			}
		})
	}
}

func TestHTTPErrorHandler_UnexpectedErrorIsOpaque(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop(), "2M")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(errors.New("pq: connection reset"), c)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if resp.Error != "internal server error" {
		t.Fatalf("internal detail leaked: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_EchoErrorsPassThrough(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop(), "2M")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.NewHTTPError(http.StatusNotFound, "Not Found"), c)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if resp.Error != "Not Found" {
		t.Fatalf("message not preserved: %q", resp.Error)
	}
}

func TestHTTPErrorHandler_BodyLimitNamesConfiguredSize(t *testing.T) {
	e := echo.New()
	handler := NewHTTPErrorHandler(zerolog.Nop(), "2M")

	req := httptest.NewRequest(http.MethodPost, "/v1/customer/applications", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler(echo.ErrStatusRequestEntityTooLarge, c)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Fatalf("expected 413, got %d", rec.Code)
	}
	var resp errorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid envelope: %v", err)
	}
	if !strings.Contains(resp.Error, "2M") {
		t.Fatalf("configured limit missing from message: %q", resp.Error)
	}
}
