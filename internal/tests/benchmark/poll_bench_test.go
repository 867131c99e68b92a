package benchmark

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/yndnr/etp-go/internal/backend/elastic"
	"github.com/yndnr/etp-go/internal/core/poller"
	"github.com/yndnr/etp-go/internal/core/query"
	"github.com/yndnr/etp-go/internal/telemetry/logger"
	"github.com/yndnr/etp-go/internal/telemetry/metric"
)

type fixedBackend uint64

func (f fixedBackend) Count(context.Context, *query.Document) (uint64, error) {
	return uint64(f), nil
}

func quietLogger(b *testing.B) logger.Logger {
	b.Helper()
	log, err := logger.New(logger.Config{Level: "error", Output: io.Discard})
	if err != nil {
		b.Fatalf("logger.New failed: %v", err)
	}
	return log
}

// BenchmarkPollOnce benchmarks one poll cycle without network I/O.
func BenchmarkPollOnce(b *testing.B) {
	s, err := poller.New(makeTasks(1), fixedBackend(42), metric.NewRegistry(), poller.WithLogger(quietLogger(b)))
	if err != nil {
		b.Fatalf("poller.New failed: %v", err)
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if err := s.PollOnce(ctx, 0); err != nil {
			b.Fatalf("PollOnce failed: %v", err)
		}
	}
}

// BenchmarkElasticCount benchmarks a count request against a local server.
func BenchmarkElasticCount(b *testing.B) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"count":42,"_shards":{"total":1,"successful":1,"skipped":0,"failed":0}}`))
	}))
	defer srv.Close()

	client, err := elastic.New(elastic.Config{URL: srv.URL, Authorization: "Basic YmVuY2g6YmVuY2g="})
	if err != nil {
		b.Fatalf("elastic.New failed: %v", err)
	}
	doc, err := query.ForTask(makeTasks(1)[0])
	if err != nil {
		b.Fatalf("ForTask failed: %v", err)
	}
	ctx := context.Background()

	b.ResetTimer()
	b.ReportAllocs()

	for i := 0; i < b.N; i++ {
		if _, err := client.Count(ctx, doc); err != nil {
			b.Fatalf("Count failed: %v", err)
		}
	}
}
