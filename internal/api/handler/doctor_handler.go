package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/core/ports"
)

// DoctorHandler serves doctor facets. Authorization is enforced by the route
// middleware before any handler runs.
type DoctorHandler struct {
	projection ports.ProjectionService
}

func NewDoctorHandler(projection ports.ProjectionService) *DoctorHandler {
	return &DoctorHandler{projection: projection}
}

// List handles GET /api/doctor.
//
// @Summary      List doctors
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Doctor
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/doctor [get]
func (h *DoctorHandler) List(c echo.Context) error {
	doctors, err := h.projection.ListDoctors(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctors)
}

// Get handles GET /api/doctor/:id.
//
// @Summary      Get a doctor
// @Tags         doctors
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Identity ID"
// @Success      200  {object}  domain.Doctor
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/doctor/{id} [get]
func (h *DoctorHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	doctor, err := h.projection.ResolveDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctor)
}

// Create handles POST /api/doctor. The identity must already hold DOCTOR.
//
// @Summary      Attach a doctor profile to an identity
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createDoctorRequest  true  "Doctor profile"
// @Success      201   {object}  domain.Doctor
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/doctor [post]
func (h *DoctorHandler) Create(c echo.Context) error {
	var req createDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	doctor, err := h.projection.CreateDoctorFacet(c.Request().Context(), req.IdentityID, toDoctorInput(req.doctorFields))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, doctor)
}

// Update handles PUT /api/doctor/:id. Doctors may update their own profile.
//
// @Summary      Update a doctor profile
// @Tags         doctors
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Identity ID"
// @Param        body  body      updateDoctorRequest  true  "Doctor profile"
// @Success      200   {object}  domain.Doctor
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/doctor/{id} [put]
func (h *DoctorHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateDoctorRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	doctor, err := h.projection.UpdateDoctorFacet(c.Request().Context(), id, toDoctorInput(req.doctorFields))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, doctor)
}

// Delete handles DELETE /api/doctor/:id. The identity itself is kept.
//
// @Summary      Remove a doctor profile
// @Tags         doctors
// @Security     BearerAuth
// @Param        id   path  int  true  "Identity ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/doctor/{id} [delete]
func (h *DoctorHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.projection.DeleteDoctorFacet(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
