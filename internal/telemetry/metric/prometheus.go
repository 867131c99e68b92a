// Package metric provides the Prometheus counters exported by etp.
//
// It exposes one counter per task plus the shared backend error counter,
// and renders them in the Prometheus text exposition format.
package metric

import (
	"fmt"
	"math"
	"net/http"
	"sort"
	"strconv"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	dto "github.com/prometheus/client_model/go"

	"github.com/yndnr/etp-go/internal/core/domain"
)

// Error counter identity. Every failed poll, whatever its task, increments it.
const (
	ErrorCounterName = "etp_bad_request"
	ErrorCounterHelp = "bad elk request"
)

// Const label names attached to task counters.
const (
	LabelPeriod      = "period"
	LabelEnvironment = "environment"
)

// Labels are static labels attached to a counter at registration.
type Labels map[string]string

// Counter is a cumulative, float-valued metric that only increases.
// It is safe for concurrent use.
type Counter struct {
	name string
	c    prometheus.Counter
}

// Name returns the metric name.
func (c *Counter) Name() string {
	return c.name
}

// Inc increments the counter by 1.
func (c *Counter) Inc() {
	c.c.Inc()
}

// Add increments the counter by v. Negative and NaN values are rejected
// and reported by returning false.
func (c *Counter) Add(v float64) bool {
	if v < 0 || math.IsNaN(v) {
		return false
	}
	c.c.Add(v)
	return true
}

// Value returns the current value.
func (c *Counter) Value() float64 {
	var m dto.Metric
	if err := c.c.Write(&m); err != nil {
		return 0
	}
	return m.GetCounter().GetValue()
}

// Sample is one counter's value at the moment of a snapshot.
type Sample struct {
	Name   string
	Labels map[string]string
	Value  float64
}

// Registry holds every exported counter.
//
// Counters are registered during startup only. Seal ends the registration
// phase; increments and snapshots are safe at any time from any goroutine.
type Registry struct {
	registry *prometheus.Registry

	mu       sync.Mutex
	counters map[string]*Counter
	sealed   atomic.Bool

	errors *Counter
}

// NewRegistry creates a registry holding only the shared error counter.
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
		counters: make(map[string]*Counter),
	}

	errs, err := r.Register(ErrorCounterName, ErrorCounterHelp, nil)
	if err != nil {
		// Static name and empty labels; registration cannot fail.
		panic(fmt.Sprintf("metric: register error counter: %v", err))
	}
	r.errors = errs
	return r
}

// Register adds a counter with the given name, help text and const labels.
//
// It returns ErrDuplicateMetric if the name is taken and ErrRegistrySealed
// once Seal has been called.
func (r *Registry) Register(name, help string, labels Labels) (*Counter, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.sealed.Load() {
		return nil, domain.ErrRegistrySealed.WithDetails(name)
	}
	if _, ok := r.counters[name]; ok {
		return nil, domain.ErrDuplicateMetric.WithDetails(name)
	}

	if help == "" {
		// The exposition format requires a non-empty HELP line.
		help = name
	}
	pc := prometheus.NewCounter(prometheus.CounterOpts{
		Name:        name,
		Help:        help,
		ConstLabels: prometheus.Labels(labels),
	})
	if err := r.registry.Register(pc); err != nil {
		return nil, fmt.Errorf("register %s: %w", name, err)
	}

	c := &Counter{name: name, c: pc}
	r.counters[name] = c
	return c, nil
}

// RegisterTask registers the counter for a task, labelled with its period
// and environment.
func (r *Registry) RegisterTask(t domain.Task) (*Counter, error) {
	return r.Register(t.MetricName, t.Description, Labels{
		LabelPeriod:      strconv.FormatUint(uint64(t.Period), 10),
		LabelEnvironment: t.Environment,
	})
}

// Seal ends the registration phase. Later calls to Register fail.
func (r *Registry) Seal() {
	r.sealed.Store(true)
}

// Sealed reports whether Seal has been called.
func (r *Registry) Sealed() bool {
	return r.sealed.Load()
}

// ErrorCounter returns the shared backend error counter.
func (r *Registry) ErrorCounter() *Counter {
	return r.errors
}

// Lookup returns the counter registered under name.
func (r *Registry) Lookup(name string) (*Counter, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	c, ok := r.counters[name]
	return c, ok
}

// Len returns the number of registered counters, the error counter included.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.counters)
}

// Gatherer returns the underlying Prometheus gatherer.
func (r *Registry) Gatherer() prometheus.Gatherer {
	return r.registry
}

// Snapshot reads every counter. Each value is read atomically; the set as a
// whole is not a cross-counter transaction. Samples are ordered by name and
// then by labels.
func (r *Registry) Snapshot() ([]Sample, error) {
	families, err := r.registry.Gather()
	if err != nil {
		return nil, fmt.Errorf("gather metrics: %w", err)
	}

	var samples []Sample
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			labels := make(map[string]string, len(m.GetLabel()))
			for _, lp := range m.GetLabel() {
				labels[lp.GetName()] = lp.GetValue()
			}
			samples = append(samples, Sample{
				Name:   mf.GetName(),
				Labels: labels,
				Value:  m.GetCounter().GetValue(),
			})
		}
	}

	sort.SliceStable(samples, func(i, j int) bool {
		if samples[i].Name != samples[j].Name {
			return samples[i].Name < samples[j].Name
		}
		return labelKey(samples[i].Labels) < labelKey(samples[j].Labels)
	})
	return samples, nil
}

// labelKey renders labels as name=value pairs sorted by name.
func labelKey(labels map[string]string) string {
	names := make([]string, 0, len(labels))
	for name := range labels {
		names = append(names, name)
	}
	sort.Strings(names)

	var b strings.Builder
	for _, name := range names {
		b.WriteString(name)
		b.WriteByte('=')
		b.WriteString(labels[name])
		b.WriteByte(',')
	}
	return b.String()
}

// Handler returns an HTTP handler rendering the registry in the Prometheus
// text exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{
		ErrorHandling: promhttp.ContinueOnError,
	})
}
