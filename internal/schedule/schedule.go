// Package schedule computes deterministic publish timestamps for pending videos.
//
// A [Plan] is a pure value: the Nth pending file always maps to the same publish
// time given the same start date, timezone, and slot configuration, which makes
// dry-run previews reproducible. The plan never reads remote or filesystem state.
package schedule

import (
	"fmt"
	"strings"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

// Mode selects how publish slots advance between consecutive files.
type Mode string

const (
	// ModeDaily spreads files across days, cycling through the configured hour slots.
	ModeDaily Mode = "daily"
	// ModeWeekly publishes one file per week at a fixed weekday and hour.
	ModeWeekly Mode = "weekly"
)

// Plan assigns a publish timestamp to the Nth pending file.
type Plan struct {
	mode     Mode
	start    time.Time // midnight of the start day in loc
	loc      *time.Location
	slots    []int        // daily mode
	baseDay  time.Time    // weekly mode: first occurrence of the target weekday
	hour     int          // weekly mode
}

// weekdays maps config day names to [time.Weekday].
var weekdays = map[string]time.Weekday{
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
	"sunday":    time.Sunday,
}

// NewDailyPlan builds a daily plan starting at start (midnight in loc) cycling
// through the given hour slots.
//
// The slot list must be non-empty and every hour must be in [0, 23].
func NewDailyPlan(start time.Time, loc *time.Location, slots []int) (Plan, error) {
	if len(slots) == 0 {
		return Plan{}, fmt.Errorf("%w: at least one hour slot must be specified", shared.ErrInvalidConfig)
	}
	for _, hour := range slots {
		if hour < 0 || hour > 23 {
			return Plan{}, fmt.Errorf("%w: invalid hour slot %d, must be between 0 and 23", shared.ErrInvalidConfig, hour)
		}
	}

	return Plan{
		mode:  ModeDaily,
		start: start,
		loc:   loc,
		slots: append([]int(nil), slots...),
	}, nil
}

// NewWeeklyPlan builds a weekly plan: the Nth file publishes N weeks after the first
// occurrence of day at/after start, at the given hour.
func NewWeeklyPlan(start time.Time, loc *time.Location, day string, hour int) (Plan, error) {
	if hour < 0 || hour > 23 {
		return Plan{}, fmt.Errorf("%w: invalid schedule hour %d, must be between 0 and 23", shared.ErrInvalidConfig, hour)
	}

	target, ok := weekdays[strings.ToLower(day)]
	if !ok {
		return Plan{}, fmt.Errorf("%w: unknown schedule day %q", shared.ErrInvalidConfig, day)
	}

	daysAhead := (int(target) - int(start.Weekday()) + 7) % 7
	baseDay := start.AddDate(0, 0, daysAhead)

	return Plan{
		mode:    ModeWeekly,
		start:   start,
		loc:     loc,
		baseDay: baseDay,
		hour:    hour,
	}, nil
}

// NewPlan builds a plan from configuration values, dispatching on mode.
func NewPlan(mode Mode, start time.Time, loc *time.Location, slots []int, day string, hour int) (Plan, error) {
	switch mode {
	case ModeWeekly:
		return NewWeeklyPlan(start, loc, day, hour)
	case ModeDaily, "":
		return NewDailyPlan(start, loc, slots)
	default:
		return Plan{}, fmt.Errorf("%w: unknown schedule mode %q", shared.ErrInvalidConfig, mode)
	}
}

// Mode returns the plan's scheduling mode.
func (p Plan) Mode() Mode { return p.mode }

// PublishTime returns the publish timestamp for the file at the given 0-based index
// within the pending, sorted list.
//
// Daily mode: dayOffset = index / len(slots), hour = slots[index % len(slots)].
// Weekly mode: index weeks after the base day at the fixed hour. The index is a
// position among the files currently pending, not a stable global slot: once a file
// completes and drops out of the pending list, later files shift earlier.
func (p Plan) PublishTime(index int) time.Time {
	if p.mode == ModeWeekly {
		d := p.baseDay.AddDate(0, 0, 7*index)
		return time.Date(d.Year(), d.Month(), d.Day(), p.hour, 0, 0, 0, p.loc)
	}

	dayOffset := index / len(p.slots)
	hour := p.slots[index%len(p.slots)]
	d := p.start.AddDate(0, 0, dayOffset)
	return time.Date(d.Year(), d.Month(), d.Day(), hour, 0, 0, 0, p.loc)
}
