package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/api/metrics"
	"github.com/carepoint/clinic-api/internal/core/domain"
	"github.com/carepoint/clinic-api/internal/core/ports"
)

// IdentityHandler serves privileged identity management.
type IdentityHandler struct {
	authService ports.AuthService
}

func NewIdentityHandler(authService ports.AuthService) *IdentityHandler {
	return &IdentityHandler{authService: authService}
}

// Provision creates an identity with an explicit role grant.
//
// @Summary      Provision an identity
// @Tags         identities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      provisionRequest  true  "Identity and roles"
// @Success      201   {object}  identityResponse
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/identities [post]
func (h *IdentityHandler) Provision(c echo.Context) error {
	actor, err := principal(c)
	if err != nil {
		return err
	}

	var req provisionRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}
	roles, ok := domain.ParseRoleSet(req.Roles)
	if !ok {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, "roles must be ADMIN, DOCTOR, PATIENT or USER")
	}

	created, err := h.authService.Provision(c.Request().Context(), actor, ports.ProvisionInput{
		SignupInput: req.signupRequest.toInput(),
		Roles:       roles,
	})
	metrics.SignupsTotal.WithLabelValues("provision", signupResult(err)).Inc()
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toIdentityResponse(created))
}
