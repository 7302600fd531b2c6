// Package calendar buckets scheduled tasks into Monday-start week columns
// and computes their vertical placement on a fixed-hour grid.
package calendar

import (
	"time"

	"github.com/vibegen/mission-control/internal/model"
)

const (
	// VisibleStartHour..VisibleEndHour is the 07:00-20:59 window the grid
	// renders, one row per hour.
	VisibleStartHour = 7
	VisibleEndHour   = 21
	VisibleHours     = VisibleEndHour - VisibleStartHour

	// DefaultUnitsPerHour is the grid scale used when the caller does not
	// supply one.
	DefaultUnitsPerHour = 64.0

	// DefaultDurationMinutes is assumed when a task carries no duration.
	DefaultDurationMinutes = 60

	// MinExtentMinutes keeps zero-duration tasks visible and clickable.
	MinExtentMinutes = 24
)

// Week is a Monday 00:00:00 .. Sunday 23:59:59 span in the reference
// date's location. Start and End are the bounds handed to the task range
// query, so tasks are fetched once per week window.
type Week struct {
	Start time.Time
	End   time.Time
}

// WeekOf returns the week containing ref.
func WeekOf(ref time.Time) Week {
	daysSinceMonday := (int(ref.Weekday()) + 6) % 7
	y, m, d := ref.AddDate(0, 0, -daysSinceMonday).Date()
	start := time.Date(y, m, d, 0, 0, 0, 0, ref.Location())
	end := start.AddDate(0, 0, 6).Add(23*time.Hour + 59*time.Minute + 59*time.Second)
	return Week{Start: start, End: end}
}

// Prev returns the week seven days earlier.
func (w Week) Prev() Week { return WeekOf(w.Start.AddDate(0, 0, -7)) }

// Next returns the week seven days later.
func (w Week) Next() Week { return WeekOf(w.Start.AddDate(0, 0, 7)) }

// Days returns the seven day-column dates, Monday first.
func (w Week) Days() [7]time.Time {
	var out [7]time.Time
	for i := range out {
		out[i] = w.Start.AddDate(0, 0, i)
	}
	return out
}

// Placement is a task's vertical position on the grid. Offset may be
// negative and Offset+Extent may overflow the visible window; clipping is a
// renderer concern, so the raw values are preserved.
type Placement struct {
	Task   *model.Task `json:"task"`
	Offset float64     `json:"offset"`
	Extent float64     `json:"extent"`
}

// DayBucket holds one day column's placements in the order the tasks were
// supplied.
type DayBucket struct {
	Date       time.Time   `json:"date"`
	Placements []Placement `json:"placements"`
}

// Layout computes placements at a given grid scale.
type Layout struct {
	UnitsPerHour float64
}

// NewLayout normalizes a non-positive scale to the default.
func NewLayout(unitsPerHour float64) Layout {
	if unitsPerHour <= 0 {
		unitsPerHour = DefaultUnitsPerHour
	}
	return Layout{UnitsPerHour: unitsPerHour}
}

// Place computes the offset from the top of the visible window and the
// extent, both in grid units, for a task starting at the given local time
// with the given duration in minutes (nil means the default).
func (l Layout) Place(at time.Time, durationMinutes *int) (offset, extent float64) {
	scale := l.UnitsPerHour / 60.0

	minutesFromTop := float64((at.Hour()-VisibleStartHour)*60 + at.Minute())
	offset = minutesFromTop * scale

	duration := DefaultDurationMinutes
	if durationMinutes != nil && *durationMinutes > 0 {
		duration = *durationMinutes
	}
	if duration < MinExtentMinutes {
		duration = MinExtentMinutes
	}
	extent = float64(duration) * scale
	return offset, extent
}

// BuildWeek partitions tasks into the week's seven day buckets and places
// each one. A task lands in the bucket whose calendar date (in the week's
// location) equals the date of its ScheduledAt; the upstream range query has
// already excluded anything outside the window.
func BuildWeek(week Week, tasks []*model.Task, l Layout) [7]DayBucket {
	loc := week.Start.Location()
	var out [7]DayBucket
	days := week.Days()
	for i, day := range days {
		out[i] = DayBucket{Date: day, Placements: []Placement{}}
	}

	for _, t := range tasks {
		at := t.ScheduledAt.In(loc)
		for i, day := range days {
			if sameDate(at, day) {
				offset, extent := l.Place(at, t.Duration)
				out[i].Placements = append(out[i].Placements, Placement{Task: t, Offset: offset, Extent: extent})
				break
			}
		}
	}
	return out
}

func sameDate(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
