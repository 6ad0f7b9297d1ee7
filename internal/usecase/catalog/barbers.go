package catalog

import (
	"context"
	"errors"
	"io"
	"net/mail"
	"strings"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/imaging"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

type BarberInput struct {
	Name      string
	Slug      string
	Email     string
	Bio       string
	SortOrder int
	IsActive  *bool
}

// BarberPatch changes only the non-nil fields.
type BarberPatch struct {
	Name      *string
	Slug      *string
	Email     *string
	Bio       *string
	SortOrder *int
	IsActive  *bool
}

func validateBarber(b models.Barber) error {
	fields := map[string]string{}
	switch {
	case b.Name == "":
		fields["name"] = "is required"
	case len(b.Name) > 100:
		fields["name"] = "must be at most 100 characters"
	}
	if b.Slug == "" || len(b.Slug) > 100 || Slugify(b.Slug) != b.Slug {
		fields["slug"] = "must be lowercase letters, digits and dashes"
	}
	if b.Email != "" {
		if _, err := mail.ParseAddress(b.Email); err != nil {
			fields["email"] = "must be a valid email"
		}
	}
	if b.SortOrder < 0 {
		fields["sortOrder"] = "must not be negative"
	}
	if len(fields) > 0 {
		return httperr.Validation("invalid_input", fields)
	}
	return nil
}

type Barbers struct {
	deps Deps
}

func NewBarbers(deps Deps) *Barbers {
	return &Barbers{deps: deps.withDefaults()}
}

// List returns barbers by sort order. The public list leaves inactive
// barbers out.
func (uc *Barbers) List(ctx context.Context, includeInactive bool) ([]models.Barber, error) {
	out, err := uc.deps.Repo.ListBarbers(ctx, includeInactive)
	if err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}
	if out == nil {
		out = []models.Barber{}
	}
	return out, nil
}

func (uc *Barbers) Create(ctx context.Context, in BarberInput, actorID *uuid.UUID) (*models.Barber, error) {
	b := models.Barber{
		Name:      strings.TrimSpace(in.Name),
		Slug:      strings.TrimSpace(in.Slug),
		Email:     strings.ToLower(strings.TrimSpace(in.Email)),
		Bio:       strings.TrimSpace(in.Bio),
		SortOrder: in.SortOrder,
		IsActive:  true,
	}
	if b.Slug == "" {
		b.Slug = Slugify(b.Name)
	}
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if err := validateBarber(b); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.CreateBarber(ctx, &b); err != nil {
		return nil, repoErr(err, "barber_not_found", "slug_taken")
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "barber_created",
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: map[string]any{"slug": b.Slug},
	})
	uc.deps.Log.Info("barber created", "barber_id", b.ID, "slug", b.Slug)
	return &b, nil
}

func (uc *Barbers) Update(ctx context.Context, id uuid.UUID, in BarberPatch, actorID *uuid.UUID) (*models.Barber, error) {
	b, err := uc.deps.Repo.GetBarber(ctx, id)
	if err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}

	if in.Name != nil {
		b.Name = strings.TrimSpace(*in.Name)
	}
	if in.Slug != nil {
		b.Slug = strings.TrimSpace(*in.Slug)
	}
	if in.Email != nil {
		b.Email = strings.ToLower(strings.TrimSpace(*in.Email))
	}
	if in.Bio != nil {
		b.Bio = strings.TrimSpace(*in.Bio)
	}
	if in.SortOrder != nil {
		b.SortOrder = *in.SortOrder
	}
	wasActive := b.IsActive
	if in.IsActive != nil {
		b.IsActive = *in.IsActive
	}
	if err := validateBarber(*b); err != nil {
		return nil, err
	}

	if err := uc.deps.Repo.UpdateBarber(ctx, b); err != nil {
		return nil, repoErr(err, "barber_not_found", "slug_taken")
	}

	// Deactivating empties the slot list.
	if wasActive != b.IsActive {
		uc.deps.invalidate(ctx, b.ID)
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "barber_updated",
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: map[string]any{"slug": b.Slug, "is_active": b.IsActive},
	})
	return b, nil
}

// UploadAvatar converts the image to a square WebP, stores it and points
// the barber at the new URL.
func (uc *Barbers) UploadAvatar(ctx context.Context, id uuid.UUID, img io.Reader, actorID *uuid.UUID) (*models.Barber, error) {
	if uc.deps.Objects == nil {
		return nil, httperr.UnavailableCode("storage_not_configured", nil)
	}

	b, err := uc.deps.Repo.GetBarber(ctx, id)
	if err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}

	body, err := imaging.Avatar(img)
	if err != nil {
		if errors.Is(err, imaging.ErrUnsupportedImage) {
			return nil, httperr.Field("invalid_image", "file", "must be a JPEG, PNG or WebP image")
		}
		return nil, httperr.Unavailable(err)
	}

	url, err := uc.deps.Objects.Put(ctx, AvatarKey(b.ID), "image/webp", body)
	if err != nil {
		uc.deps.Log.Error("avatar upload failed", "barber_id", b.ID, "error", err)
		return nil, httperr.UnavailableCode("storage_unavailable", err)
	}

	b.AvatarURL = url
	if err := uc.deps.Repo.UpdateBarber(ctx, b); err != nil {
		return nil, repoErr(err, "barber_not_found", "")
	}

	uc.deps.Audit.Dispatch(audit.Event{
		ActorID:  actorID,
		Action:   "barber_avatar_updated",
		Entity:   "barber",
		EntityID: &b.ID,
		Metadata: map[string]any{"bytes": len(body)},
	})
	return b, nil
}

func AvatarKey(barberID uuid.UUID) string {
	return "avatars/" + barberID.String() + ".webp"
}
