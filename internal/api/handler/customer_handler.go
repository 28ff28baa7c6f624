package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/ports"
)

// CustomerHandler serves the customer portal: application submission and
// tracking.
type CustomerHandler struct {
	applications ports.ApplicationService
}

func NewCustomerHandler(applications ports.ApplicationService) *CustomerHandler {
	return &CustomerHandler{applications: applications}
}

// Applications lists the caller's own applications, newest first.
//
// @Summary      Own applications
// @Tags         customer
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}  applicationResponse
// @Router       /v1/customer/applications [get]
func (h *CustomerHandler) Applications(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	apps, err := h.applications.ListForCustomer(c.Request().Context(), email)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toApplicationResponses(apps))
}

// Apply submits a service application. Multipart form: service_type, name,
// mobile, description, payment_done plus `documents` file parts in the order
// of the service's required-document list.
//
// @Summary      Submit an application
// @Tags         customer
// @Accept       multipart/form-data
// @Produce      json
// @Security     BearerAuth
// @Param        service_type  formData  string  true   "Service type"
// @Param        name          formData  string  true   "Applicant name"
// @Param        mobile        formData  string  true   "Applicant mobile"
// @Param        description   formData  string  false  "Free-form note"
// @Param        payment_done  formData  bool    false  "Payment confirmation"
// @Param        documents     formData  file    false  "Supporting documents"
// @Success      201  {object}  applicationResponse
// @Failure      400  {object}  errorResponse
// @Router       /v1/customer/applications [post]
func (h *CustomerHandler) Apply(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	serviceType := c.FormValue("service_type")
	name := c.FormValue("name")
	mobile := c.FormValue("mobile")
	if serviceType == "" || name == "" || mobile == "" {
		return echo.NewHTTPError(http.StatusBadRequest, "service_type, name and mobile are required")
	}

	in := ports.ApplyInput{
		CustomerEmail: email,
		ServiceType:   serviceType,
		Name:          name,
		Mobile:        mobile,
		Description:   c.FormValue("description"),
		PaymentDone:   c.FormValue("payment_done") == "true",
	}

	form, err := c.MultipartForm()
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid multipart form")
	}
	for _, fh := range form.File["documents"] {
		upload, err := readUpload(fh)
		if err != nil {
			return err
		}
		in.Documents = append(in.Documents, *upload)
	}

	app, err := h.applications.Apply(c.Request().Context(), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toApplicationResponse(app))
}

// IssuedDocument serves the issued PDF of the caller's own application.
//
// @Summary      Issued document
// @Tags         customer
// @Produce      application/pdf
// @Security     BearerAuth
// @Param        id  path  int  true  "Application id"
// @Success      200  {file}  binary
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/customer/applications/{id}/issued-document [get]
func (h *CustomerHandler) IssuedDocument(c echo.Context) error {
	email, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	doc, err := h.applications.IssuedDocument(c.Request().Context(), id, email, false)
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderContentDisposition, `attachment; filename="`+doc.FileName+`"`)
	return c.Blob(http.StatusOK, doc.ContentType, doc.Data)
}
