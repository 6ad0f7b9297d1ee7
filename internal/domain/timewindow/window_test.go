package timewindow

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIntersect(t *testing.T) {
	store := Window{Start: 540, End: 1200}

	tests := []struct {
		name string
		in   Window
		want Window
		ok   bool
	}{
		{"inside", Window{600, 720}, Window{600, 720}, true},
		{"starts before open", Window{480, 600}, Window{540, 600}, true},
		{"ends after close", Window{1140, 1260}, Window{1140, 1200}, true},
		{"covers whole day", Window{0, 1440}, Window{540, 1200}, true},
		{"entirely before open", Window{420, 540}, Window{}, false},
		{"entirely after close", Window{1200, 1300}, Window{}, false},
		{"degenerate", Window{600, 600}, Window{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Intersect(tt.in, store)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestContainsIsHalfOpen(t *testing.T) {
	w := Window{Start: 540, End: 1200}

	assert.True(t, w.Contains(540))
	assert.True(t, w.Contains(1199))
	assert.False(t, w.Contains(1200))
	assert.False(t, w.Contains(539))
}

func TestUnion(t *testing.T) {
	got := Union([]Window{
		{660, 720},
		{600, 690},
		{900, 960},
		{720, 750},
		{800, 800},
	})

	assert.Equal(t, []Window{{600, 750}, {900, 960}}, got)
}

func TestNewInterval(t *testing.T) {
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	iv := NewInterval(start, 45)

	assert.True(t, iv.Valid())
	assert.Equal(t, 45*time.Minute, iv.Duration())
	assert.False(t, Interval{Start: start, End: start}.Valid())
}
