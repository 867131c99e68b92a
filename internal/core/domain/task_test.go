package domain

import (
	"errors"
	"math"
	"testing"
	"time"
)

func okTask(name string) Task {
	return Task{
		MetricName:  name,
		Period:      5,
		Description: "ok responses",
		Environment: "prod",
		Filter:      []Clause{{"term": map[string]any{"status": "ok"}}},
	}
}

func TestTask_Interval(t *testing.T) {
	tests := []struct {
		period uint32
		want   time.Duration
	}{
		{1, time.Minute},
		{5, 5 * time.Minute},
		{60, time.Hour},
		{1440, 24 * time.Hour},
	}

	for _, tt := range tests {
		task := Task{Period: tt.period}
		if got := task.Interval(); got != tt.want {
			t.Errorf("Interval() for period %d = %v, want %v", tt.period, got, tt.want)
		}
	}
}

func TestTask_Interval_AcceptedPeriodsArePositive(t *testing.T) {
	task := okTask("http_ok_total")
	task.Period = MaxPeriod
	if err := task.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if got, want := task.Interval(), 365*24*time.Hour; got != want {
		t.Errorf("Interval() = %v, want %v", got, want)
	}
}

func TestTask_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Task)
		wantErr error
	}{
		{"valid", func(*Task) {}, nil},
		{"empty name", func(t *Task) { t.MetricName = "  " }, ErrInvalidTask},
		{"bad name", func(t *Task) { t.MetricName = "http-ok" }, ErrInvalidTask},
		{"leading digit", func(t *Task) { t.MetricName = "1abc" }, ErrInvalidTask},
		{"leading space", func(t *Task) { t.MetricName = " http_ok_total" }, ErrInvalidTask},
		{"trailing space", func(t *Task) { t.MetricName = "http_ok_total " }, ErrInvalidTask},
		{"zero period", func(t *Task) { t.Period = 0 }, ErrInvalidPeriod},
		{"max period", func(t *Task) { t.Period = MaxPeriod }, nil},
		{"period above max", func(t *Task) { t.Period = MaxPeriod + 1 }, ErrInvalidPeriod},
		{"period overflowing duration", func(t *Task) { t.Period = 153722868 }, ErrInvalidPeriod},
		{"period from negative input", func(t *Task) { t.Period = math.MaxUint32 }, ErrInvalidPeriod},
		{"empty filter allowed", func(t *Task) { t.Filter = nil }, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := okTask("http_ok_total")
			tt.mutate(&task)

			err := task.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateTasks(t *testing.T) {
	t.Run("distinct names", func(t *testing.T) {
		if err := ValidateTasks([]Task{okTask("a_total"), okTask("b_total")}); err != nil {
			t.Errorf("ValidateTasks() error = %v", err)
		}
	})

	t.Run("empty list", func(t *testing.T) {
		if err := ValidateTasks(nil); err != nil {
			t.Errorf("ValidateTasks(nil) error = %v", err)
		}
	})

	t.Run("duplicate names", func(t *testing.T) {
		err := ValidateTasks([]Task{okTask("a_total"), okTask("b_total"), okTask("a_total")})
		if !errors.Is(err, ErrDuplicateMetric) {
			t.Fatalf("ValidateTasks() error = %v, want ErrDuplicateMetric", err)
		}
	})

	t.Run("invalid task is reported with index", func(t *testing.T) {
		bad := okTask("b_total")
		bad.Period = 0
		err := ValidateTasks([]Task{okTask("a_total"), bad})
		if !errors.Is(err, ErrInvalidPeriod) {
			t.Fatalf("ValidateTasks() error = %v, want ErrInvalidPeriod", err)
		}
		if got := err.Error(); got[:9] != "tasks[1]:" {
			t.Errorf("error = %q, want tasks[1] prefix", got)
		}
	})
}
