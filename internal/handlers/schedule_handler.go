package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucSchedule "github.com/BruksfildServices01/barber-booking/internal/usecase/schedule"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type ScheduleHandler struct {
	dayView *ucSchedule.BuildDayView
	export  *ucSchedule.ExportCalendar
	publish *ucSchedule.PublishCalendar
}

func NewScheduleHandler(
	dayView *ucSchedule.BuildDayView,
	export *ucSchedule.ExportCalendar,
	publish *ucSchedule.PublishCalendar,
) *ScheduleHandler {
	return &ScheduleHandler{
		dayView: dayView,
		export:  export,
		publish: publish,
	}
}

// DayView answers GET /api/schedule?date=.
func (h *ScheduleHandler) DayView(c *gin.Context) {
	date, err := validators.Date("date", c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	view, err := h.dayView.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, view)
}

// Calendar streams the day as an iCalendar attachment.
func (h *ScheduleHandler) Calendar(c *gin.Context) {
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

	cal, err := h.export.Execute(c.Request.Context(), date, barberID)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="headz-schedule-`+date.String()+`.ics"`)
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(cal.String()))
}

// Publish uploads the day's feed to object storage.
func (h *ScheduleHandler) Publish(c *gin.Context) {
	date, err := validators.Date("date", c.Query("date"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	url, err := h.publish.Execute(c.Request.Context(), date)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, gin.H{"url": url, "date": date.String()})
}
