package schedule

import (
	"errors"
	"testing"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

func mustLocation(t *testing.T, name string) *time.Location {
	t.Helper()
	loc, err := time.LoadLocation(name)
	if err != nil {
		t.Fatalf("failed to load location %s: %v", name, err)
	}
	return loc
}

func TestDailyPlan(t *testing.T) {
	loc := mustLocation(t, "America/Sao_Paulo")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	plan, err := NewDailyPlan(start, loc, []int{8, 18})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	t.Run("slots fill before date advances", func(t *testing.T) {
		tests := []struct {
			index int
			want  time.Time
		}{
			{0, time.Date(2024, 1, 1, 8, 0, 0, 0, loc)},
			{1, time.Date(2024, 1, 1, 18, 0, 0, 0, loc)},
			{2, time.Date(2024, 1, 2, 8, 0, 0, 0, loc)},
			{3, time.Date(2024, 1, 2, 18, 0, 0, 0, loc)},
			{4, time.Date(2024, 1, 3, 8, 0, 0, 0, loc)},
		}

		for _, tt := range tests {
			if got := plan.PublishTime(tt.index); !got.Equal(tt.want) {
				t.Errorf("PublishTime(%d) = %v, want %v", tt.index, got, tt.want)
			}
		}
	})

	t.Run("deterministic", func(t *testing.T) {
		for i := 0; i < 10; i++ {
			if !plan.PublishTime(7).Equal(plan.PublishTime(7)) {
				t.Fatal("same index must always produce the same time")
			}
		}
	})

	t.Run("single slot advances one day per video", func(t *testing.T) {
		single, err := NewDailyPlan(start, loc, []int{12})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := single.PublishTime(5); !got.Equal(time.Date(2024, 1, 6, 12, 0, 0, 0, loc)) {
			t.Errorf("unexpected time %v", got)
		}
	})

	t.Run("rejects empty slots", func(t *testing.T) {
		if _, err := NewDailyPlan(start, loc, nil); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})

	t.Run("rejects out-of-range hour", func(t *testing.T) {
		if _, err := NewDailyPlan(start, loc, []int{8, 24}); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestWeeklyPlan(t *testing.T) {
	loc := mustLocation(t, "UTC")
	// 2024-01-01 is a Monday.
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	t.Run("first occurrence on start day", func(t *testing.T) {
		plan, err := NewWeeklyPlan(start, loc, "monday", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := plan.PublishTime(0); !got.Equal(time.Date(2024, 1, 1, 10, 0, 0, 0, loc)) {
			t.Errorf("unexpected first slot %v", got)
		}
		if got := plan.PublishTime(2); !got.Equal(time.Date(2024, 1, 15, 10, 0, 0, 0, loc)) {
			t.Errorf("unexpected third slot %v", got)
		}
	})

	t.Run("first occurrence after start day", func(t *testing.T) {
		plan, err := NewWeeklyPlan(start, loc, "friday", 18)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got := plan.PublishTime(0); !got.Equal(time.Date(2024, 1, 5, 18, 0, 0, 0, loc)) {
			t.Errorf("unexpected first slot %v", got)
		}
	})

	t.Run("rejects unknown weekday", func(t *testing.T) {
		if _, err := NewWeeklyPlan(start, loc, "someday", 10); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}

func TestNewPlan(t *testing.T) {
	loc := mustLocation(t, "UTC")
	start := time.Date(2024, 1, 1, 0, 0, 0, 0, loc)

	t.Run("empty mode defaults to daily", func(t *testing.T) {
		plan, err := NewPlan("", start, loc, []int{9}, "monday", 10)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.Mode() != ModeDaily {
			t.Errorf("expected daily mode, got %s", plan.Mode())
		}
	})

	t.Run("weekly mode", func(t *testing.T) {
		plan, err := NewPlan(ModeWeekly, start, loc, nil, "tuesday", 9)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if plan.Mode() != ModeWeekly {
			t.Errorf("expected weekly mode, got %s", plan.Mode())
		}
	})

	t.Run("unknown mode rejected", func(t *testing.T) {
		if _, err := NewPlan("hourly", start, loc, []int{9}, "monday", 10); !errors.Is(err, shared.ErrInvalidConfig) {
			t.Errorf("expected ErrInvalidConfig, got %v", err)
		}
	})
}
