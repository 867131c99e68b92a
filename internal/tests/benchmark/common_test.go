package benchmark

import (
	"fmt"
	"runtime"
	"testing"

	"github.com/yndnr/etp-go/internal/core/domain"
	"github.com/yndnr/etp-go/internal/telemetry/metric"
)

// TaskCounts defines the task counts for benchmarking.
var TaskCounts = []int{1, 10, 100, 1000}

// SmallTaskCounts for quick benchmarks.
var SmallTaskCounts = []int{1, 10, 100}

// makeTasks returns n valid tasks with distinct metric names.
func makeTasks(n int) []domain.Task {
	tasks := make([]domain.Task, n)
	for i := range tasks {
		tasks[i] = domain.Task{
			MetricName:  fmt.Sprintf("bench_task_%d_total", i),
			Period:      uint32(1 + i%60),
			Description: "benchmark task",
			Environment: "bench",
			Filter: []domain.Clause{
				{"term": map[string]any{"service": fmt.Sprintf("svc-%d", i%10)}},
				{"match_phrase": map[string]any{"message": "request completed"}},
			},
			MustNot: []domain.Clause{
				{"term": map[string]any{"path": "/health"}},
			},
		}
	}
	return tasks
}

// newRegistry registers every task and seals the registry.
func newRegistry(b *testing.B, tasks []domain.Task) (*metric.Registry, []*metric.Counter) {
	b.Helper()
	r := metric.NewRegistry()
	counters := make([]*metric.Counter, len(tasks))
	for i, t := range tasks {
		c, err := r.RegisterTask(t)
		if err != nil {
			b.Fatalf("RegisterTask failed: %v", err)
		}
		counters[i] = c
	}
	r.Seal()
	return r, counters
}

// reportMemory reports memory usage.
func reportMemory(b *testing.B, prefix string) {
	var m runtime.MemStats
	runtime.GC()
	runtime.ReadMemStats(&m)
	b.ReportMetric(float64(m.Alloc)/(1024*1024), prefix+"_MB")
}

// runWithTaskCounts runs a benchmark function with various task counts.
func runWithTaskCounts(b *testing.B, counts []int, benchFn func(b *testing.B, count int)) {
	for _, count := range counts {
		b.Run(fmt.Sprintf("tasks_%d", count), func(b *testing.B) {
			benchFn(b, count)
		})
	}
}
