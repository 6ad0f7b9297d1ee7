package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/httpresp"
	"github.com/BruksfildServices01/barber-booking/internal/imaging"
	"github.com/BruksfildServices01/barber-booking/internal/middleware"
	ucCatalog "github.com/BruksfildServices01/barber-booking/internal/usecase/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/validators"
)

type BarberHandler struct {
	barbers *ucCatalog.Barbers
}

func NewBarberHandler(barbers *ucCatalog.Barbers) *BarberHandler {
	return &BarberHandler{barbers: barbers}
}

type CreateBarberRequest struct {
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	Email     string `json:"email"`
	Bio       string `json:"bio"`
	SortOrder int    `json:"sortOrder"`
	IsActive  *bool  `json:"isActive"`
}

type UpdateBarberRequest struct {
	Name      *string `json:"name"`
	Slug      *string `json:"slug"`
	Email     *string `json:"email"`
	Bio       *string `json:"bio"`
	SortOrder *int    `json:"sortOrder"`
	IsActive  *bool   `json:"isActive"`
}

// List includes inactive barbers; staff use it to manage the roster.
func (h *BarberHandler) List(c *gin.Context) {
	barbers, err := h.barbers.List(c.Request.Context(), true)
	if err != nil {
		httperr.Respond(c, err)
		return
	}
	httpresp.List(c, barbers)
}

func (h *BarberHandler) Create(c *gin.Context) {
	var req CreateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.barbers.Create(c.Request.Context(), ucCatalog.BarberInput{
		Name:      req.Name,
		Slug:      req.Slug,
		Email:     req.Email,
		Bio:       req.Bio,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.Created(c, b)
}

func (h *BarberHandler) Update(c *gin.Context) {
	id, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	var req UpdateBarberRequest
	if !bindJSON(c, &req) {
		return
	}

	b, err := h.barbers.Update(c.Request.Context(), id, ucCatalog.BarberPatch{
		Name:      req.Name,
		Slug:      req.Slug,
		Email:     req.Email,
		Bio:       req.Bio,
		SortOrder: req.SortOrder,
		IsActive:  req.IsActive,
	}, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}

// UploadAvatar takes a multipart form with the image in "file".
func (h *BarberHandler) UploadAvatar(c *gin.Context) {
	id, err := validators.UUID("id", c.Param("id"))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	fh, err := c.FormFile("file")
	if err != nil {
		httperr.Respond(c, httperr.Field("missing_file", "file", "is required"))
		return
	}
	if fh.Size > imaging.MaxUploadBytes {
		httperr.Respond(c, httperr.Field("invalid_image", "file", "must be at most 5 MB"))
		return
	}

	f, err := fh.Open()
	if err != nil {
		httperr.Respond(c, httperr.Field("missing_file", "file", "could not be read"))
		return
	}
	defer f.Close()

	b, err := h.barbers.UploadAvatar(c.Request.Context(), id, f, middleware.StaffID(c))
	if err != nil {
		httperr.Respond(c, err)
		return
	}

	httpresp.OK(c, b)
}
