package timewindow

import (
	"sort"
	"time"
)

// MinutesPerDay bounds every Window.
const MinutesPerDay = 24 * 60

// Window is a half-open range of minutes from midnight, [Start, End).
type Window struct {
	Start int `json:"start_minutes"`
	End   int `json:"end_minutes"`
}

func (w Window) Empty() bool {
	return w.End <= w.Start
}

// Contains reports whether minute lies inside [Start, End).
func (w Window) Contains(minute int) bool {
	return minute >= w.Start && minute < w.End
}

// Intersect clamps w to bound. The second result is false when nothing of w
// survives.
func Intersect(w, bound Window) (Window, bool) {
	out := Window{
		Start: max(w.Start, bound.Start),
		End:   min(w.End, bound.End),
	}
	if out.Empty() {
		return Window{}, false
	}
	return out, true
}

// SortByStart orders windows by start minute, then end minute.
func SortByStart(ws []Window) {
	sort.SliceStable(ws, func(i, j int) bool {
		if ws[i].Start != ws[j].Start {
			return ws[i].Start < ws[j].Start
		}
		return ws[i].End < ws[j].End
	})
}

// Union merges overlapping or touching windows into maximal disjoint ranges.
func Union(ws []Window) []Window {
	tmp := make([]Window, 0, len(ws))
	for _, w := range ws {
		if !w.Empty() {
			tmp = append(tmp, w)
		}
	}
	SortByStart(tmp)

	var out []Window
	for _, w := range tmp {
		if n := len(out); n > 0 && w.Start <= out[n-1].End {
			out[n-1].End = max(out[n-1].End, w.End)
			continue
		}
		out = append(out, w)
	}
	return out
}

// Interval is a half-open range of absolute instants, [Start, End).
type Interval struct {
	Start time.Time
	End   time.Time
}

func NewInterval(start time.Time, minutes int) Interval {
	return Interval{Start: start, End: start.Add(time.Duration(minutes) * time.Minute)}
}

func (i Interval) Valid() bool {
	return i.End.After(i.Start)
}

func (i Interval) Duration() time.Duration {
	return i.End.Sub(i.Start)
}
