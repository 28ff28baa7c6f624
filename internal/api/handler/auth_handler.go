package handler

import (
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// AuthHandler serves the public surface: portal logins, logout and the two
// self-registration forms.
type AuthHandler struct {
	accounts ports.AccountService
}

func NewAuthHandler(accounts ports.AccountService) *AuthHandler {
	return &AuthHandler{accounts: accounts}
}

// portalRole maps the :portal path segment to a role. Unknown portals 404.
func portalRole(portal string) (domain.Role, error) {
	switch portal {
	case "admin":
		return domain.RoleAdmin, nil
	case "csc":
		return domain.RoleCsc, nil
	case "customer":
		return domain.RoleCustomer, nil
	}
	return "", echo.NewHTTPError(http.StatusNotFound, "unknown portal")
}

// Login authenticates against one of the three portals.
//
// @Summary      Portal login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        portal  path      string        true  "Portal name (admin|csc|customer)"
// @Param        body    body      loginRequest  true  "Credentials"
// @Success      200     {object}  loginResponse
// @Failure      401     {object}  errorResponse
// @Router       /auth/login/{portal} [post]
func (h *AuthHandler) Login(c echo.Context) error {
	role, err := portalRole(c.Param("portal"))
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	result, err := h.accounts.Login(c.Request().Context(), role, req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{
		Token:   result.Token,
		Account: toAccountResponse(result.Account),
	})
}

// Logout revokes the presented bearer token until its natural expiry.
//
// @Summary      Logout
// @Tags         auth
// @Security     BearerAuth
// @Success      204  "token revoked"
// @Failure      401  {object}  errorResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	authHeader := c.Request().Header.Get("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return echo.NewHTTPError(http.StatusUnauthorized, "invalid authorization header")
	}

	if err := h.accounts.Logout(c.Request().Context(), parts[1]); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// RegisterCustomer handles customer self-registration. The account starts
// PENDING until the assigned CSC approves it.
//
// @Summary      Customer self-registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerCustomerRequest  true  "Registration form"
// @Success      201   {object}  customerResponse
// @Failure      409   {object}  errorResponse
// @Router       /register [post]
func (h *AuthHandler) RegisterCustomer(c echo.Context) error {
	var req registerCustomerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.RegisterCustomer(c.Request().Context(), ports.RegisterCustomerInput{
		FullName:         req.FullName,
		Email:            req.Email,
		Mobile:           req.Mobile,
		Password:         req.Password,
		AssignedCscEmail: req.CscEmail,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCustomerResponse(account))
}

// RegisterCsc handles CSC self-registration. The account starts PENDING
// until an admin approves it.
//
// @Summary      CSC self-registration
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerCscRequest  true  "Onboarding form"
// @Success      201   {object}  cscResponse
// @Failure      409   {object}  errorResponse
// @Router       /csc/register [post]
func (h *AuthHandler) RegisterCsc(c echo.Context) error {
	var req registerCscRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.RegisterCsc(c.Request().Context(), ports.RegisterCscInput{
		OwnerName:     req.OwnerName,
		Email:         req.Email,
		Password:      req.Password,
		PortalName:    req.PortalName,
		CscID:         req.CscID,
		Mobile:        req.Mobile,
		CenterAddress: req.CenterAddress,
	}, domain.AccountPending)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCscResponse(account))
}

// CscCenters lists active CSC accounts for the customer registration form.
//
// @Summary      Active CSC centers
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  cscResponse
// @Router       /csc-centers [get]
func (h *AuthHandler) CscCenters(c echo.Context) error {
	accounts, err := h.accounts.ActiveCscAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCscResponses(accounts))
}

// Services lists the fixed service catalog with required document labels.
//
// @Summary      Service catalog
// @Tags         catalog
// @Produce      json
// @Success      200  {array}  serviceResponse
// @Router       /services [get]
func (h *AuthHandler) Services(c echo.Context) error {
	types := domain.ServiceTypes()
	out := make([]serviceResponse, 0, len(types))
	for _, t := range types {
		out = append(out, serviceResponse{
			ServiceType:       t,
			RequiredDocuments: domain.RequiredDocuments(t),
		})
	}
	return c.JSON(http.StatusOK, out)
}

// RequiredDocuments lists the document labels required for one service type.
//
// @Summary      Required documents for a service
// @Tags         catalog
// @Produce      json
// @Param        type  path      string  true  "Service type"
// @Success      200   {object}  serviceResponse
// @Failure      404   {object}  errorResponse
// @Router       /services/{type}/required-documents [get]
func (h *AuthHandler) RequiredDocuments(c echo.Context) error {
	serviceType := c.Param("type")
	docs := domain.RequiredDocuments(serviceType)
	if len(docs) == 0 {
		return echo.NewHTTPError(http.StatusNotFound, "unknown service type")
	}
	return c.JSON(http.StatusOK, serviceResponse{
		ServiceType:       serviceType,
		RequiredDocuments: docs,
	})
}
