package handlers

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogsHandler struct {
	logs *ucCatalog.AuditLogs
	loc  *time.Location
}

// NewAuditLogsHandler reads from/to dates as calendar days in loc.
func NewAuditLogsHandler(logs *ucCatalog.AuditLogs, loc *time.Location) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs, loc: loc}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	q := ucCatalog.AuditQuery{
		Action: c.Query("action"),
		Entity: c.Query("entity"),
	}

	// Bad paging values fall back to the defaults rather than failing.
	q.Page, _ = validators.Int("page", c.Query("page"), 1)
	q.Limit, _ = validators.Int("limit", c.Query("limit"), ucCatalog.DefaultAuditPageSize)

	if raw := c.Query("from"); raw != "" {
		d, err := validators.Date("from", raw)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		q.From, _ = d.Bounds(h.loc)
	}
	// "to" is inclusive of the whole day.
	if raw := c.Query("to"); raw != "" {
		d, err := validators.Date("to", raw)
		if err != nil {
			httperr.Respond(c, err)
			return
		}
		_, q.To = d.Bounds(h.loc)
	}

	page, err := h.logs.List(c.Request.Context(), q)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, page)
}
