package httpserver

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/yndnr/etp-go/internal/core/domain"
	"github.com/yndnr/etp-go/internal/telemetry/metric"
)

func TestNew(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	s := New("127.0.0.1:0", handler, nil)
	if s == nil {
		t.Fatal("New returned nil")
	}
	if s.httpServer == nil {
		t.Error("httpServer is nil")
	}
	if s.httpServer.ReadHeaderTimeout != DefaultReadHeaderTimeout {
		t.Errorf("ReadHeaderTimeout = %v", s.httpServer.ReadHeaderTimeout)
	}
	if s.Addr() != "127.0.0.1:0" {
		t.Errorf("Addr() before Listen = %q", s.Addr())
	}
}

func TestServer_ListenBusyAddress(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer ln.Close()

	s := New(ln.Addr().String(), http.NotFoundHandler(), nil)
	err = s.Listen()
	if !errors.Is(err, domain.ErrBindFailed) {
		t.Fatalf("Listen() error = %v, want ErrBindFailed", err)
	}
	if err := s.Serve(); !errors.Is(err, domain.ErrBindFailed) {
		t.Errorf("Serve() error = %v, want ErrBindFailed", err)
	}
}

func TestServer_ListenInvalidAddress(t *testing.T) {
	s := New("not-an-address", http.NotFoundHandler(), nil)
	if err := s.Listen(); !errors.Is(err, domain.ErrBindFailed) {
		t.Errorf("Listen() error = %v, want ErrBindFailed", err)
	}
}

func TestServer_ServeAndShutdown(t *testing.T) {
	reg := metric.NewRegistry()
	c, err := reg.RegisterTask(domain.Task{MetricName: "http_ok_total", Period: 5, Description: "ok", Environment: "prod"})
	if err != nil {
		t.Fatalf("RegisterTask: %v", err)
	}
	reg.Seal()
	c.Add(42)

	router := NewRouter(&RouterConfig{Metrics: reg.Handler(), MetricPath: "metrics"})
	s := New("127.0.0.1:0", router, nil)
	if err := s.Listen(); err != nil {
		t.Fatalf("Listen() error = %v", err)
	}

	errChan := make(chan error, 1)
	go func() {
		errChan <- s.Serve()
	}()

	resp, err := http.Get("http://" + s.Addr() + "/metrics")
	if err != nil {
		t.Fatalf("GET /metrics: %v", err)
	}
	body, _ := io.ReadAll(resp.Body)
	resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200", resp.StatusCode)
	}
	if !strings.Contains(string(body), `http_ok_total{environment="prod",period="5"} 42`) {
		t.Errorf("body missing task counter:\n%s", body)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := s.Shutdown(ctx); err != nil {
		t.Errorf("Shutdown error: %v", err)
	}

	select {
	case err := <-errChan:
		if err != nil {
			t.Errorf("Serve returned unexpected error: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Error("timeout waiting for Serve to return")
	}
}
