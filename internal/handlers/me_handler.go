package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucStaff "github.com/BruksfildServices01/barber-booking/internal/usecase/staff"
)

type MeHandler struct {
	accounts *ucStaff.Accounts
}

func NewMeHandler(accounts *ucStaff.Accounts) *MeHandler {
	return &MeHandler{accounts: accounts}
}

func (h *MeHandler) GetMe(c *gin.Context) {
	email := c.GetString(middleware.ContextStaffEmail)
	if email == "" {
		httperr.Respond(c, httperr.Unauthorized("missing_token"))
		return
	}

	user, err := h.accounts.Profile(c.Request.Context(), email)
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, user)
}
