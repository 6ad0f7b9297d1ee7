package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
)

// bindJSON decodes the body into req. On failure it writes a validation
// response and returns false.
func bindJSON(c *gin.Context, req any) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		httperr.Respond(c, httperr.Field("invalid_input", "body", err.Error()))
		return false
	}
	return true
}
