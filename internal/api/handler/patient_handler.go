package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/core/ports"
)

// PatientHandler serves patient facets. Authorization and ownership are enforced by the route
// middleware before any handler runs.
type PatientHandler struct {
	projection ports.ProjectionService
}

func NewPatientHandler(projection ports.ProjectionService) *PatientHandler {
	return &PatientHandler{projection: projection}
}

// List handles GET /api/patient.
//
// @Summary      List patients
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Patient
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Router       /api/patient [get]
func (h *PatientHandler) List(c echo.Context) error {
	patients, err := h.projection.ListPatients(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patients)
}

// Get handles GET /api/patient/:id.
//
// @Summary      Get a patient
// @Tags         patients
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Identity ID"
// @Success      200  {object}  domain.Patient
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patient/{id} [get]
func (h *PatientHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	patient, err := h.projection.ResolvePatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Create handles POST /api/patient. The identity must already hold PATIENT.
//
// @Summary      Attach a patient record to an identity
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPatientRequest  true  "Patient profile"
// @Success      201   {object}  domain.Patient
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/patient [post]
func (h *PatientHandler) Create(c echo.Context) error {
	var req createPatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patient, err := h.projection.CreatePatientFacet(c.Request().Context(), req.IdentityID, toPatientInput(req.patientFields))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, patient)
}

// Update handles PUT /api/patient/:id. Patients may update their own record.
//
// @Summary      Update a patient profile
// @Tags         patients
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                  true  "Identity ID"
// @Param        body  body      updatePatientRequest  true  "Patient profile"
// @Success      200   {object}  domain.Patient
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/patient/{id} [put]
func (h *PatientHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updatePatientRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	patient, err := h.projection.UpdatePatientFacet(c.Request().Context(), id, toPatientInput(req.patientFields))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, patient)
}

// Delete handles DELETE /api/patient/:id. The identity itself is kept.
//
// @Summary      Remove a patient profile
// @Tags         patients
// @Security     BearerAuth
// @Param        id   path  int  true  "Identity ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/patient/{id} [delete]
func (h *PatientHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.projection.DeletePatientFacet(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
