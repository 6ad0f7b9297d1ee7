package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

// Publisher uploads the calendar for one day. *schedule.PublishCalendar
// implements it.
type Publisher interface {
	Execute(ctx context.Context, date timezone.Date) (string, error)
}

// CalendarPublisher pushes today's schedule to object storage on a cron
// spec evaluated in the store zone.
type CalendarPublisher struct {
	cron      *cron.Cron
	publisher Publisher
	loc       *time.Location
	log       *slog.Logger
	now       func() time.Time
}

func NewCalendarPublisher(publisher Publisher, loc *time.Location, log *slog.Logger) *CalendarPublisher {
	return &CalendarPublisher{
		cron:      cron.New(cron.WithLocation(loc)),
		publisher: publisher,
		loc:       loc,
		log:       log,
		now:       time.Now,
	}
}

// Schedule registers the job. spec uses the standard five-field syntax,
// e.g. "0 7 * * *" for 07:00 every day.
func (p *CalendarPublisher) Schedule(spec string) error {
	_, err := p.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		p.RunOnce(ctx)
	})
	return err
}

// RunOnce publishes the current day in the store zone.
func (p *CalendarPublisher) RunOnce(ctx context.Context) {
	date := timezone.DateIn(p.now(), p.loc)

	url, err := p.publisher.Execute(ctx, date)
	if err != nil {
		p.log.Error("calendar publish failed", "date", date.String(), "error", err)
		return
	}
	p.log.Info("calendar published", "date", date.String(), "url", url)
}

func (p *CalendarPublisher) Start() {
	p.cron.Start()
}

// Stop waits for a running publish to finish or ctx to expire.
func (p *CalendarPublisher) Stop(ctx context.Context) {
	done := p.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}
