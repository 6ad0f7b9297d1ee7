package jobs

import (
	"bytes"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/barber-booking/internal/logger"
	"github.com/BruksfildServices01/barber-booking/internal/timezone"
)

type fakePublisher struct {
	dates []timezone.Date
	err   error
}

func (f *fakePublisher) Execute(_ context.Context, date timezone.Date) (string, error) {
	f.dates = append(f.dates, date)
	if f.err != nil {
		return "", f.err
	}
	return "https://cdn.test/" + date.String() + ".ics", nil
}

func TestRunOnceUsesStoreDate(t *testing.T) {
	loc := timezone.Location(timezone.DefaultTimezone)
	pub := &fakePublisher{}
	var buf bytes.Buffer

	p := NewCalendarPublisher(pub, loc, logger.NewWithWriter(&buf, "info", "production"))
	// 02:30 UTC on the 2nd is still the evening of the 1st in New York.
	p.now = func() time.Time { return time.Date(2025, 3, 2, 2, 30, 0, 0, time.UTC) }

	p.RunOnce(context.Background())

	require.Len(t, pub.dates, 1)
	assert.Equal(t, "2025-03-01", pub.dates[0].String())
	assert.Contains(t, buf.String(), "calendar published")
}

func TestRunOnceLogsFailure(t *testing.T) {
	pub := &fakePublisher{err: errors.New("bucket gone")}
	var buf bytes.Buffer

	p := NewCalendarPublisher(pub, time.UTC, logger.NewWithWriter(&buf, "info", "production"))
	p.RunOnce(context.Background())

	assert.Contains(t, buf.String(), "calendar publish failed")
	assert.Contains(t, buf.String(), "bucket gone")
}

func TestScheduleRejectsBadSpec(t *testing.T) {
	p := NewCalendarPublisher(&fakePublisher{}, time.UTC, logger.Discard())
	assert.Error(t, p.Schedule("every morning"))
	assert.NoError(t, p.Schedule("0 7 * * *"))

	p.Start()
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	p.Stop(ctx)
}
