package handler

import (
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/ports"
)

// CscHandler serves the CSC operator portal: the assigned-customer directory
// and the application review workflow.
type CscHandler struct {
	accounts     ports.AccountService
	applications ports.ApplicationService
}

func NewCscHandler(accounts ports.AccountService, applications ports.ApplicationService) *CscHandler {
	return &CscHandler{accounts: accounts, applications: applications}
}

// Customers lists the caller's assigned customers, pending and active.
//
// @Summary      Assigned customers
// @Tags         csc
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  customerDirectoryResponse
// @Router       /v1/csc/customers [get]
func (h *CscHandler) Customers(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	dir, err := h.accounts.CustomersForCsc(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, customerDirectoryResponse{
		Pending: toCustomerResponses(dir.Pending),
		Active:  toCustomerResponses(dir.Active),
	})
}

// CreateCustomer registers a customer assigned to the caller, immediately
// ACTIVE.
//
// @Summary      Create a customer
// @Tags         csc
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerCustomerRequest  true  "Customer details"
// @Success      201   {object}  customerResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/csc/customers [post]
func (h *CscHandler) CreateCustomer(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req registerCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	// CscEmail comes from the token, not the body, for this flow.
	req.CscEmail = email
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.CreateCustomerForCsc(c.Request().Context(), email, ports.RegisterCustomerInput{
		FullName: req.FullName,
		Email:    req.Email,
		Mobile:   req.Mobile,
		Password: req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCustomerResponse(account))
}

// ApproveCustomer activates a pending customer assigned to the caller.
//
// @Summary      Approve a customer
// @Tags         csc
// @Security     BearerAuth
// @Param        id  path  int  true  "Customer account id"
// @Success      204  "customer activated"
// @Failure      403  {object}  errorResponse
// @Router       /v1/csc/customers/{id}/approve [post]
func (h *CscHandler) ApproveCustomer(c echo.Context) error {
	return h.customerAction(c, h.accounts.ApproveCustomer)
}

// DeactivateCustomer sets a customer back to PENDING.
//
// @Summary      Deactivate a customer
// @Tags         csc
// @Security     BearerAuth
// @Param        id  path  int  true  "Customer account id"
// @Success      204  "customer deactivated"
// @Failure      403  {object}  errorResponse
// @Router       /v1/csc/customers/{id}/deactivate [post]
func (h *CscHandler) DeactivateCustomer(c echo.Context) error {
	return h.customerAction(c, h.accounts.DeactivateCustomer)
}

// RemoveCustomer hard-deletes a customer account.
//
// @Summary      Remove a customer
// @Tags         csc
// @Security     BearerAuth
// @Param        id  path  int  true  "Customer account id"
// @Success      204  "customer removed"
// @Failure      403  {object}  errorResponse
// @Router       /v1/csc/customers/{id} [delete]
func (h *CscHandler) RemoveCustomer(c echo.Context) error {
	return h.customerAction(c, h.accounts.RemoveCustomer)
}

func (h *CscHandler) customerAction(c echo.Context, fn func(ctx context.Context, customerID uint, cscEmail string) error) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := fn(c.Request().Context(), id, email); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Applications lists the caller's applications bucketed by review stage.
//
// @Summary      Application buckets
// @Tags         csc
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  applicationBucketsResponse
// @Router       /v1/csc/applications [get]
func (h *CscHandler) Applications(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	buckets, err := h.applications.ListForCsc(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toBucketsResponse(buckets))
}

// Application loads one application, assignment-checked.
//
// @Summary      Application detail
// @Tags         csc
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Application id"
// @Success      200  {object}  applicationResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/csc/applications/{id} [get]
func (h *CscHandler) Application(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	app, err := h.applications.GetForCsc(c.Request().Context(), id, email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponse(app))
}

// UpdateApplicationStatus applies a review transition. Multipart form:
// status (required), message (optional), issued (optional PDF, consulted for
// non-rejected statuses).
//
// @Summary      Update application status
// @Tags         csc
// @Accept       multipart/form-data
// @Security     BearerAuth
// @Param        id       path      int     true   "Application id"
// @Param        status   formData  string  true   "New status"
// @Param        message  formData  string  false  "Review note"
// @Param        issued   formData  file    false  "Issued PDF"
// @Success      204  "status updated"
// @Failure      400  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /v1/csc/applications/{id}/status [post]
func (h *CscHandler) UpdateApplicationStatus(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	status := c.FormValue("status")
	if status == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "status is required")
	}

	in := ports.UpdateStatusInput{
		ApplicationID: id,
		CscEmail:      email,
		Status:        status,
		Message:       c.FormValue("message"),
	}

	if fh, err := c.FormFile("issued"); err == nil {
		upload, err := readUpload(fh)
		if err != nil {
			return err
		}
		in.Issued = upload
	}

	if err := h.applications.UpdateStatus(c.Request().Context(), in); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DownloadDocument serves a submitted document as an attachment. The :docId
// is the derived document id from the application detail.
//
// @Summary      Download a submitted document
// @Tags         csc
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        docId  path  int  true  "Document id"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/csc/application-documents/{docId}/download [get]
func (h *CscHandler) DownloadDocument(c echo.Context) error {
	return h.serveDocument(c, true)
}

// ViewDocument serves a submitted document inline.
//
// @Summary      View a submitted document
// @Tags         csc
// @Produce      application/octet-stream
// @Security     BearerAuth
// @Param        docId  path  int  true  "Document id"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/csc/application-documents/{docId}/view [get]
func (h *CscHandler) ViewDocument(c echo.Context) error {
	return h.serveDocument(c, false)
}

func (h *CscHandler) serveDocument(c echo.Context, attachment bool) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	pseudoID, err := strconv.ParseInt(c.Param("docId"), 10, 64)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid document id")
	}

	doc, err := h.applications.UploadedDocument(c.Request().Context(), pseudoID, email)
	if err != nil {
		return err
	}

	disposition := "inline"
	if attachment {
		disposition = "attachment"
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, disposition+`; filename="`+doc.FileName+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

// IssuedDocument serves the issued PDF of an assigned application.
//
// @Summary      Issued document (operator view)
// @Tags         csc
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Application id"
// @Success      200  {file}  binary
// @Failure      404  {object}  errorResponse
// @Router       /v1/csc/applications/{id}/issued-document [get]
func (h *CscHandler) IssuedDocument(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	doc, err := h.applications.IssuedDocument(c.Request().Context(), id, email, true)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}

// readUpload drains one multipart file into memory. The request body is
// already capped by the BodyLimit middleware.
func readUpload(fh *multipart.FileHeader) (*ports.FileUpload, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, echo.NewHTTPError(http.StatusBadRequest, "unreadable upload")
	}

	return &ports.FileUpload{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}
