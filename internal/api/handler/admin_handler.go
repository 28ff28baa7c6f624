package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/edocportal/portal-api/internal/core/domain"
	"github.com/edocportal/portal-api/internal/core/ports"
)

// AdminHandler serves the admin portal: CSC account management.
type AdminHandler struct {
	accounts ports.AccountService
}

func NewAdminHandler(accounts ports.AccountService) *AdminHandler {
	return &AdminHandler{accounts: accounts}
}

// pathID parses a numeric :id path parameter.
func pathID(c echo.Context, name string) (uint, error) {
	id, err := strconv.ParseUint(c.Param(name), 10, 32)
	if err != nil || id == 0 {
		return 0, echo.NewHTTPError(http.StatusBadRequest, "invalid id")
	}
	return uint(id), nil
}

// ListCsc partitions CSC accounts into active and soft-deleted.
//
// @Summary      List CSC accounts
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  cscDirectoryResponse
// @Router       /v1/admin/csc-users [get]
func (h *AdminHandler) ListCsc(c echo.Context) error {
	dir, err := h.accounts.CscAccounts(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, cscDirectoryResponse{
		Active:  toCscResponses(dir.Active),
		Deleted: toCscResponses(dir.Deleted),
	})
}

// CreateCsc registers a CSC account that is immediately ACTIVE.
//
// @Summary      Create a CSC account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      registerCscRequest  true  "CSC details"
// @Success      201   {object}  cscResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/csc-users [post]
func (h *AdminHandler) CreateCsc(c echo.Context) error {
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
	}, domain.AccountActive)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toCscResponse(account))
}

// GetCsc loads one CSC account.
//
// @Summary      Get a CSC account
// @Tags         admin
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Account id"
// @Success      200  {object}  cscResponse
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/csc-users/{id} [get]
func (h *AdminHandler) GetCsc(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	account, err := h.accounts.FindCsc(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCscResponse(account))
}

// UpdateCsc edits a CSC profile; a non-empty password resets the credential.
//
// @Summary      Update a CSC account
// @Tags         admin
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int               true  "Account id"
// @Param        body  body      updateCscRequest  true  "Updated details"
// @Success      200   {object}  cscResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Router       /v1/admin/csc-users/{id} [put]
func (h *AdminHandler) UpdateCsc(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req updateCscRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	account, err := h.accounts.UpdateCsc(c.Request().Context(), id, ports.UpdateCscInput{
		OwnerName:     req.OwnerName,
		Email:         req.Email,
		PortalName:    req.PortalName,
		CscID:         req.CscID,
		Mobile:        req.Mobile,
		CenterAddress: req.CenterAddress,
		Password:      req.Password,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toCscResponse(account))
}

// ApproveCsc activates a pending CSC account.
//
// @Summary      Approve a CSC account
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Account id"
// @Success      204  "account activated"
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/csc-users/{id}/approve [post]
func (h *AdminHandler) ApproveCsc(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.UpdateStatus(c.Request().Context(), id, string(domain.AccountActive)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// DeleteCsc soft-deletes a CSC account by setting its status to DELETED.
//
// @Summary      Soft-delete a CSC account
// @Tags         admin
// @Security     BearerAuth
// @Param        id  path  int  true  "Account id"
// @Success      204  "account marked deleted"
// @Failure      404  {object}  errorResponse
// @Router       /v1/admin/csc-users/{id} [delete]
func (h *AdminHandler) DeleteCsc(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.accounts.UpdateStatus(c.Request().Context(), id, string(domain.AccountDeleted)); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
