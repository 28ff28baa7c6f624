package handler

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

func TestCustomerHandler_Apply_Multipart(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		applyFn: func(_ context.Context, in ports.ApplyInput) (*domain.Application, error) {
			if in.CustomerEmail != "asha@example.com" {
				t.Fatalf("customer email not taken from token: %q", in.CustomerEmail)
			}
			if in.ServiceType != "PAN Card" || in.Name != "Asha Rao" || in.Mobile != "9876543210" {
				t.Fatalf("form fields not forwarded: %+v", in)
			}
			if !in.PaymentDone {
				t.Fatalf("payment flag not forwarded")
			}
			if len(in.Documents) != 2 {
				t.Fatalf("expected 2 uploads, got %d", len(in.Documents))
			}
			if string(in.Documents[0].Data) != "aadhaar-bytes" || in.Documents[1].FileName != "photo.png" {
				t.Fatalf("uploads not forwarded in order: %+v", in.Documents)
			}
			return &domain.Application{ID: 11, ServiceType: in.ServiceType, Status: domain.StatusPending}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("service_type", "PAN Card")
	_ = writer.WriteField("name", "Asha Rao")
	_ = writer.WriteField("mobile", "9876543210")
	_ = writer.WriteField("description", "new PAN card")
	_ = writer.WriteField("payment_done", "true")
	part, _ := writer.CreateFormFile("documents", "aadhaar.pdf")
	_, _ = part.Write([]byte("aadhaar-bytes"))
	part, _ = writer.CreateFormFile("documents", "photo.png")
	_, _ = part.Write([]byte("photo-bytes"))
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/customer/applications", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	c, rec := authedContext(e, req, "asha@example.com", "customer")

	if err := handler.Apply(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}
}

func TestCustomerHandler_Apply_MissingFields(t *testing.T) {
	e := newTestEcho()
	handler := NewCustomerHandler(&stubApplicationService{})

	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	_ = writer.WriteField("service_type", "PAN Card")
	_ = writer.Close()

	req := httptest.NewRequest(http.MethodPost, "/v1/customer/applications", &body)
	req.Header.Set(echo.HeaderContentType, writer.FormDataContentType())
	c, _ := authedContext(e, req, "asha@example.com", "customer")

	err := handler.Apply(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 HTTPError, got %v", err)
	}
}

func TestCustomerHandler_IssuedDocument_OwnerOnlyFlag(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		issuedDocumentFn: func(_ context.Context, applicationID uint, email string, anyRole bool) (*ports.DocumentFile, error) {
			if anyRole {
				t.Fatalf("customer downloads must use the owner-only path")
			}
			if applicationID != 11 || email != "asha@example.com" {
				t.Fatalf("unexpected args: %d %q", applicationID, email)
			}
			return &ports.DocumentFile{FileName: "cert.pdf", ContentType: "application/pdf", Data: []byte("pdf")}, nil
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/customer/applications/11/issued-document", nil)
	c, rec := authedContext(e, req, "asha@example.com", "customer")
	c.SetParamNames("id")
	c.SetParamValues("11")

	if err := handler.IssuedDocument(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if got := rec.Header().Get(echo.HeaderContentType); got != "application/pdf" {
		t.Fatalf("expected application/pdf, got %q", got)
	}
}

func TestCustomerHandler_IssuedDocument_NotAvailable(t *testing.T) {
	e := newTestEcho()
	stub := &stubApplicationService{
		issuedDocumentFn: func(_ context.Context, _ uint, _ string, _ bool) (*ports.DocumentFile, error) {
			return nil, domain.ErrIssuedNotAvailable
		},
	}
	handler := NewCustomerHandler(stub)

	req := httptest.NewRequest(http.MethodGet, "/v1/customer/applications/11/issued-document", nil)
	c, _ := authedContext(e, req, "asha@example.com", "customer")
	c.SetParamNames("id")
	c.SetParamValues("11")

	if err := handler.IssuedDocument(c); !errors.Is(err, domain.ErrIssuedNotAvailable) {
		t.Fatalf("expected ErrIssuedNotAvailable to propagate, got %v", err)
	}
}
