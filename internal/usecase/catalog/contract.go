package catalog

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-booking/internal/audit"
	domain "github.com/BruksfildServices01/barber-booking/internal/domain/catalog"
	"github.com/BruksfildServices01/barber-booking/internal/httperr"
	"github.com/BruksfildServices01/barber-booking/internal/logger"
)

// SlotInvalidator drops cached slot lists for a barber. Every change to
// windows or time off must call it.
type SlotInvalidator interface {
	Invalidate(ctx context.Context, barberID uuid.UUID) error
}

type Auditor interface {
	Dispatch(ev audit.Event)
}

// ObjectStore is where avatars end up. *storage.S3Store implements it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type Deps struct {
	Repo    domain.Repository
	Cache   SlotInvalidator
	Audit   Auditor
	Objects ObjectStore
	Log     *slog.Logger
	Now     func() time.Time
}

type nopInvalidator struct{}

func (nopInvalidator) Invalidate(context.Context, uuid.UUID) error { return nil }

type nopAuditor struct{}

func (nopAuditor) Dispatch(audit.Event) {}

func (d Deps) withDefaults() Deps {
	if d.Cache == nil {
		d.Cache = nopInvalidator{}
	}
	if d.Audit == nil {
		d.Audit = nopAuditor{}
	}
	if d.Log == nil {
		d.Log = logger.Discard()
	}
	if d.Now == nil {
		d.Now = time.Now
	}
	return d
}

func (d Deps) invalidate(ctx context.Context, barberID uuid.UUID) {
	if err := d.Cache.Invalidate(ctx, barberID); err != nil {
		d.Log.Warn("slot cache invalidate failed", "barber_id", barberID, "error", err)
	}
}

func repoErr(err error, notFoundCode, duplicateCode string) error {
	var he *httperr.Error
	switch {
	case err == nil:
		return nil
	case errors.As(err, &he):
		return err
	case errors.Is(err, domain.ErrNotFound):
		return httperr.NotFound(notFoundCode)
	case errors.Is(err, domain.ErrDuplicate) && duplicateCode != "":
		return httperr.Conflict(duplicateCode)
	}
	return httperr.Unavailable(err)
}

var slugJunk = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify lowercases s and joins its alphanumeric runs with dashes.
func Slugify(s string) string {
	return strings.Trim(slugJunk.ReplaceAllString(strings.ToLower(s), "-"), "-")
}
