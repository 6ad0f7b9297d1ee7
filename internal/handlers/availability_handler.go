package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// AvailabilityHandler edits a barber's weekly windows and time off.
type AvailabilityHandler struct {
	availability *ucCatalog.Availability
}

func NewAvailabilityHandler(availability *ucCatalog.Availability) *AvailabilityHandler {
	return &AvailabilityHandler{availability: availability}
}

type WindowRequest struct {
	DayOfWeek    int `json:"dayOfWeek"`
	StartMinutes int `json:"startMinutes"`
	EndMinutes   int `json:"endMinutes"`
}

type TimeOffRequest struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
	Type      string `json:"type"`
	Notes     string `json:"notes"`
}

// --------------------------------------------------
// WINDOWS
// --------------------------------------------------

func (h *AvailabilityHandler) ListWindows(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	windows, err := h.availability.ListWindows(c.Request.Context(), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, windows)
}

func (h *AvailabilityHandler) AddWindow(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req WindowRequest
	if !bindJSON(c, &req) {
		return
	}

	w, err := h.availability.AddWindow(c.Request.Context(), barberID, ucCatalog.WindowInput{
		DayOfWeek:    req.DayOfWeek,
		StartMinutes: req.StartMinutes,
		EndMinutes:   req.EndMinutes,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, w)
}

func (h *AvailabilityHandler) DeleteWindow(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	windowID, err := validators.UUID("windowId", c.Param("windowId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.availability.DeleteWindow(c.Request.Context(), barberID, windowID, middleware.StaffID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --------------------------------------------------
// TIME OFF
// --------------------------------------------------

func (h *AvailabilityHandler) ListTimeOff(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	entries, err := h.availability.ListTimeOff(c.Request.Context(), barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, entries)
}

func (h *AvailabilityHandler) AddTimeOff(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req TimeOffRequest
	if !bindJSON(c, &req) {
		return
	}

	start, err := validators.Date("startDate", req.StartDate)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	// A single-day entry may omit the end date.
	end := start
	if req.EndDate != "" {
		if end, err = validators.Date("endDate", req.EndDate); err != nil {
			httperr.Respond(c, err)
			return
		}
	}

	t, err := h.availability.AddTimeOff(c.Request.Context(), barberID, ucCatalog.TimeOffInput{
		StartDate: start,
		EndDate:   end,
		Kind:      req.Type,
		Notes:     req.Notes,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.Created(c, t)
}

func (h *AvailabilityHandler) DeleteTimeOff(c *gin.Context) {
	barberID, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	timeOffID, err := validators.UUID("timeOffId", c.Param("timeOffId"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	if err := h.availability.DeleteTimeOff(c.Request.Context(), barberID, timeOffID, middleware.StaffID(c)); err != nil {
		httperr.Respond(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
