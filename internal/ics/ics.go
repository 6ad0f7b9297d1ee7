// Package ics renders schedule feeds as iCalendar (RFC 5545) documents.
package ics

import (
	"io"
	"time"

	ical "github.com/arran4/golang-ical"
)

type Event struct {
	UID     string
	Stamp   time.Time
	Start   time.Time
	End     time.Time
	Summary string
}

type Calendar struct {
	ProdID string
	Events []Event
}

// build maps the feed onto golang-ical, which owns TEXT escaping, line
// folding and UTC date-time formatting.
func (c Calendar) build() *ical.Calendar {
	cal := ical.NewCalendar()
	cal.SetProductId(c.ProdID)
	cal.SetCalscale("GREGORIAN")

	for _, e := range c.Events {
		ev := cal.AddEvent(e.UID)
		ev.SetDtStampTime(e.Stamp)
		ev.SetStartAt(e.Start)
		ev.SetEndAt(e.End)
		ev.SetSummary(e.Summary)
	}
	return cal
}

func (c Calendar) String() string {
	return c.build().Serialize()
}

func (c Calendar) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, c.String())
	return int64(n), err
}
