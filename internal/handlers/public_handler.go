package handlers

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucAppointment "github.com/BruksfildServices01/barber-booking/internal/usecase/appointment"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

// PublicHandler serves the booking flow: pick a service and a barber, list
// free slots, book one.
type PublicHandler struct {
	services     *ucCatalog.Services
	barbers      *ucCatalog.Barbers
	availability *ucAppointment.GetAvailability
	create       *ucAppointment.CreateAppointment
}

func NewPublicHandler(
	services *ucCatalog.Services,
	barbers *ucCatalog.Barbers,
	availability *ucAppointment.GetAvailability,
	create *ucAppointment.CreateAppointment,
) *PublicHandler {
	return &PublicHandler{
		services:     services,
		barbers:      barbers,
		availability: availability,
		create:       create,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type CreateAppointmentRequest struct {
	BarberID        string `json:"barberId"`
	ServiceID       string `json:"serviceId"`
	DurationMinutes int    `json:"durationMinutes"`
	ClientName      string `json:"clientName"`
	ClientPhone     string `json:"clientPhone"`
	ClientEmail     string `json:"clientEmail"`
	StartAt         string `json:"startAt"`
	IsWalkIn        bool   `json:"isWalkIn"`
	Notes           string `json:"notes"`
}

////////////////////////////////////////////////////////
// CATALOG
////////////////////////////////////////////////////////

func (h *PublicHandler) ListServices(c *gin.Context) {
	services, err := h.services.List(c.Request.Context(), false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *PublicHandler) ListBarbers(c *gin.Context) {
	barbers, err := h.barbers.List(c.Request.Context(), false)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, barbers)
}

////////////////////////////////////////////////////////
// SLOTS
////////////////////////////////////////////////////////

// Slots answers GET /api/appointments/slots?barberId=&date=&durationMinutes=
// with {"slots": [ISO instants]}.
func (h *PublicHandler) Slots(c *gin.Context) {
	barberID, err := validators.UUID("barberId", c.Query("barberId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	date, err := validators.Date("date", c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	duration, err := validators.Int("durationMinutes", c.Query("durationMinutes"), 0)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	slots, err := h.availability.Execute(c.Request.Context(), ucAppointment.GetAvailabilityInput{
		BarberID:        barberID,
		Date:            date,
		DurationMinutes: duration,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.JSON(200, gin.H{"slots": isoStrings(slots)})
}

////////////////////////////////////////////////////////
// BOOKING
////////////////////////////////////////////////////////

// CreateAppointment books a slot. Staff use the same endpoint for walk-ins;
// when a staff token is present the caller is recorded in the audit log.
func (h *PublicHandler) CreateAppointment(c *gin.Context) {
	var req CreateAppointmentRequest
	if !bindJSON(c, &req) {
		return
	}

	actor := middleware.StaffID(c)
	if req.IsWalkIn && actor == nil {
		httperr.Respond(c, httperr.Forbidden("not_staff"))
		return
	}

	barberID, err := validators.UUID("barberId", req.BarberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	serviceID, err := validators.UUID("serviceId", req.ServiceID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	if strings.TrimSpace(req.StartAt) == "" {
		httperr.Respond(c, httperr.Field("invalid_input", "startAt", "is required"))
		return
	}
	startAt, err := parseInstant("startAt", req.StartAt)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	ap, err := h.create.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		BarberID:        barberID,
		ServiceID:       serviceID,
		DurationMinutes: req.DurationMinutes,
		ClientName:      req.ClientName,
		ClientPhone:     req.ClientPhone,
		ClientEmail:     req.ClientEmail,
		StartAt:         startAt,
		IsWalkIn:        req.IsWalkIn,
		Notes:           req.Notes,
		ActorID:         actor,
	})
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, ap)
}
