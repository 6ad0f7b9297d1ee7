package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type ServiceHandler struct {
	services *ucCatalog.Services
}

func NewServiceHandler(services *ucCatalog.Services) *ServiceHandler {
	return &ServiceHandler{services: services}
}

type CreateServiceRequest struct {
	Name            string `json:"name"`
	Slug            string `json:"slug"`
	Description     string `json:"description"`
	DurationMinutes int    `json:"durationMinutes"`
	PriceCents      int    `json:"priceCents"`
	Category        string `json:"category"`
	SortOrder       int    `json:"sortOrder"`
}

type UpdateServiceRequest struct {
	Name            *string `json:"name"`
	Description     *string `json:"description"`
	DurationMinutes *int    `json:"durationMinutes"`
	PriceCents      *int    `json:"priceCents"`
	Category        *string `json:"category"`
	SortOrder       *int    `json:"sortOrder"`
	IsActive        *bool   `json:"isActive"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	services, err := h.services.List(c.Request.Context(), true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	var req CreateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Create(c.Request.Context(), ucCatalog.ServiceInput{
		Name:            req.Name,
		Slug:            req.Slug,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Category:        req.Category,
		SortOrder:       req.SortOrder,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, s)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	id, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateServiceRequest
	if !bindJSON(c, &req) {
		return
	}

	s, err := h.services.Update(c.Request.Context(), id, ucCatalog.ServicePatch{
		Name:            req.Name,
		Description:     req.Description,
		DurationMinutes: req.DurationMinutes,
		PriceCents:      req.PriceCents,
		Category:        req.Category,
		SortOrder:       req.SortOrder,
		IsActive:        req.IsActive,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, s)
}
