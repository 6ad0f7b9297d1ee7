package schedule

import (
	"context"
	"time"

	domain "github.com/BruksfildServices01/barber-booking/internal/domain/appointment"
	"github.com/BruksfildServices01/barber-booking/internal/models"
)

// Source is the read side the schedule needs.
type Source interface {
	ListActiveBarbers(ctx context.Context) ([]models.Barber, error)
	ListConfirmedAppointments(ctx context.Context, filter domain.AppointmentFilter) ([]models.Appointment, error)
}

// ObjectStore publishes finished documents. *storage.S3Store implements it.
type ObjectStore interface {
	Put(ctx context.Context, key, contentType string, body []byte) (string, error)
}

type CalendarOptions struct {
	ProdID    string
	UIDDomain string
}

type Deps struct {
	Source   Source
	Store    domain.StoreHours
	Calendar CalendarOptions
	Objects  ObjectStore
	Now      func() time.Time
}

func (d Deps) now() time.Time {
	if d.Now == nil {
		return time.Now()
	}
	return d.Now()
}
