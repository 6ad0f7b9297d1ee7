package catalog

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	appointment "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type ServiceInput struct {
	Name            string
	Slug            string
	Description     string
	DurationMinutes int
	PriceCents      int
	Category        string
	SortOrder       int
}

type ServicePatch struct {
	Name            *string
	Description     *string
	DurationMinutes *int
	PriceCents      *int
	Category        *string
	SortOrder       *int
	IsActive        *bool
}

func validateService(s models.Service) error {
	fields := map[string]string{}
	switch {
	case s.Name == "":
		fields["name"] = "is required"
	case len(s.Name) > 100:
		fields["name"] = "must be at most 100 characters"
	}
	if s.Slug == "" || len(s.Slug) > 100 || Slugify(s.Slug) != s.Slug {
		fields["slug"] = "must be lowercase letters, digits and dashes"
	}
	if len(s.Description) > 255 {
		fields["description"] = "must be at most 255 characters"
	}
	if appointment.ValidateDuration(s.DurationMinutes) != nil {
		fields["durationMinutes"] = "must be between 15 and 120"
	}
	if s.PriceCents < 0 {
		fields["priceCents"] = "must not be negative"
	}
	if len(s.Category) > 50 {
		fields["category"] = "must be at most 50 characters"
	}
	if len(fields) > 0 {
		return httperr.Validation("invalid_input", fields)
	}
	return nil
}

type Services struct {
	deps Deps
}

func NewServices(deps Deps) *Services {
	return &Services{deps: deps.withDefaults()}
}

func (uc *Services) List(ctx context.Context, includeInactive bool) ([]models.Service, error) {
	out, err := uc.deps.Repo.ListServices(ctx, includeInactive)
	if err != nil {
		return nil, repoErr(err, "service_not_found", "")
	}
	if out == nil {
		out = []models.Service{}
	}
	return out, nil
}

func (uc *Services) Create(ctx context.Context, in ServiceInput, actorID *uuid.UUID) (*models.Service, error) {
	s := models.Service{
		Name:            strings.TrimSpace(in.Name),
		Slug:            strings.TrimSpace(in.Slug),
		Description:     strings.TrimSpace(in.Description),
		DurationMinutes: in.DurationMinutes,
		PriceCents:      in.PriceCents,
		Category:        strings.ToLower(strings.TrimSpace(in.Category)),
		SortOrder:       in.SortOrder,
		IsActive:        true,
	}
	if s.Slug == "" {
		s.Slug = Slugify(s.Name)
	}
	if err := validateService(s); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.CreateService(ctx, &s); err != nil {
		return nil, repoErr(err, "service_not_found", "slug_taken")
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "service_created",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: map[string]any{"slug": s.Slug, "price_cents": s.PriceCents},
	})
	return &s, nil
}

func (uc *Services) Update(ctx context.Context, id uuid.UUID, in ServicePatch, actorID *uuid.UUID) (*models.Service, error) {
	s, err := uc.deps.Repo.GetService(ctx, id)
	if err != nil {
		return nil, repoErr(err, "service_not_found", "")
	}

	if in.Name != nil {
		s.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		s.Description = strings.TrimSpace(*in.Description)
	}
	if in.DurationMinutes != nil {
		s.DurationMinutes = *in.DurationMinutes
	}
	if in.PriceCents != nil {
		s.PriceCents = *in.PriceCents
	}
	if in.Category != nil {
		s.Category = strings.ToLower(strings.TrimSpace(*in.Category))
	}
	if in.SortOrder != nil {
		s.SortOrder = *in.SortOrder
	}
	if in.IsActive != nil {
		s.IsActive = *in.IsActive
	}
	if err := validateService(*s); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.UpdateService(ctx, s); err != nil {
		return nil, repoErr(err, "service_not_found", "slug_taken")
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "service_updated",
		Entity:   "service",
		EntityID: &s.ID,
		Metadata: map[string]any{"slug": s.Slug, "is_active": s.IsActive},
	})
	return s, nil
}
