package handlers

import (
	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	list   *ucAppointment.ListAppointmentsByDate
	update *ucAppointment.UpdateAppointment
}

func NewAppointmentHandler(
	list *ucAppointment.ListAppointmentsByDate,
	update *ucAppointment.UpdateAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		list:   list,
		update: update,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type UpdateAppointmentRequest struct {
	StartAt *string `json:"startAt"`
	EndAt   *string `json:"endAt"`
	Status  *string `json:"status"`
}

// ======================================================
// LIST BY DATE
// ======================================================

// ListByDate answers GET /api/appointments?date=YYYY-MM-DD[&barberId=].
func (h *AppointmentHandler) ListByDate(c *gin.Context) {
	date, err := validators.Date("date", c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	barberID, err := validators.OptionalUUID("barberId", c.Query("barberId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	out, err := h.list.Execute(c.Request.Context(), date, barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.List(c, out)
}

// ======================================================
// UPDATE (reschedule and/or status)
// ======================================================

func (h *AppointmentHandler) Update(c *gin.Context) {
	id, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	startAt, err := parseOptionalInstant("startAt", req.StartAt)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	endAt, err := parseOptionalInstant("endAt", req.EndAt)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.update.Execute(c.Request.Context(), ucAppointment.UpdateAppointmentInput{
		ID:      id,
		StartAt: startAt,
		EndAt:   endAt,
		Status:  req.Status,
		ActorID: middleware.StaffID(c),
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}

// ======================================================
// STATUS SHORTCUTS
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	h.setStatus(c, domain.StatusCancelled)
}

func (h *AppointmentHandler) Complete(c *gin.Context) {
	h.setStatus(c, domain.StatusCompleted)
}

func (h *AppointmentHandler) NoShow(c *gin.Context) {
	h.setStatus(c, domain.StatusNoShow)
}

func (h *AppointmentHandler) setStatus(c *gin.Context, status domain.Status) {
	id, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.update.SetStatus(c.Request.Context(), id, status, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, ap)
}
