package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/carepoint/clinic-api/internal/core/ports"
)

// AppointmentHandler handles HTTP requests for appointments.
type AppointmentHandler struct {
	service ports.AppointmentService
}

func NewAppointmentHandler(service ports.AppointmentService) *AppointmentHandler {
	return &AppointmentHandler{service: service}
}

// List handles GET /api/appointment.
//
// @Summary      List appointments
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Appointment
// @Failure      403  {object}  errorResponse
// @Router       /api/appointment [get]
func (h *AppointmentHandler) List(c echo.Context) error {
	list, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// Get handles GET /api/appointment/:id.
//
// @Summary      Get an appointment
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      int  true  "Appointment ID"
// @Success      200  {object}  domain.Appointment
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointment/{id} [get]
func (h *AppointmentHandler) Get(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	a, err := h.service.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Create handles POST /api/appointment.
//
// @Summary      Book an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createAppointmentRequest  true  "Appointment"
// @Success      201   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/appointment [post]
func (h *AppointmentHandler) Create(c echo.Context) error {
	var req createAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	a, err := h.service.Create(c.Request().Context(), toAppointmentInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, a)
}

// Update handles PUT /api/appointment/:id.
//
// @Summary      Update an appointment
// @Tags         appointments
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      int                       true  "Appointment ID"
// @Param        body  body      updateAppointmentRequest  true  "Fields to change"
// @Success      200   {object}  domain.Appointment
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /api/appointment/{id} [put]
func (h *AppointmentHandler) Update(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	var req updateAppointmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	a, err := h.service.Update(c.Request().Context(), id, toAppointmentUpdate(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, a)
}

// Delete handles DELETE /api/appointment/:id.
//
// @Summary      Cancel and remove an appointment
// @Tags         appointments
// @Security     BearerAuth
// @Param        id   path  int  true  "Appointment ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /api/appointment/{id} [delete]
func (h *AppointmentHandler) Delete(c echo.Context) error {
	id, err := pathID(c, "id")
	if err != nil {
		return err
	}
	if err := h.service.Delete(c.Request().Context(), id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// ListByPatient handles GET /api/appointment/patient/:patientId.
//
// @Summary      Appointments of a patient
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        patientId  path      int  true  "Patient identity ID"
// @Success      200        {array}   domain.Appointment
// @Failure      403        {object}  errorResponse
// @Failure      404        {object}  errorResponse
// @Router       /api/appointment/patient/{patientId} [get]
func (h *AppointmentHandler) ListByPatient(c echo.Context) error {
	id, err := pathID(c, "patientId")
	if err != nil {
		return err
	}
	list, err := h.service.ListByPatient(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}

// ListByDoctor handles GET /api/appointment/doctor/:doctorId.
//
// @Summary      Appointments of a doctor
// @Tags         appointments
// @Produce      json
// @Security     BearerAuth
// @Param        doctorId  path      int  true  "Doctor identity ID"
// @Success      200       {array}   domain.Appointment
// @Failure      403       {object}  errorResponse
// @Failure      404       {object}  errorResponse
// @Router       /api/appointment/doctor/{doctorId} [get]
func (h *AppointmentHandler) ListByDoctor(c echo.Context) error {
	id, err := pathID(c, "doctorId")
	if err != nil {
		return err
	}
	list, err := h.service.ListByDoctor(c.Request().Context(), id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, list)
}
