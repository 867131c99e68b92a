package poller

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
	"strconv"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/yndnr/etp-go/internal/backend/elastic"
	"github.com/yndnr/etp-go/internal/core/domain"
	"github.com/yndnr/etp-go/internal/core/query"
	"github.com/yndnr/etp-go/internal/telemetry/logger"
	"github.com/yndnr/etp-go/internal/telemetry/metric"
)

// Backend executes a count query.
type Backend interface {
	Count(ctx context.Context, doc *query.Document) (uint64, error)
}

// SleepFunc waits for d or until ctx is done, returning ctx.Err() in the
// latter case.
type SleepFunc func(ctx context.Context, d time.Duration) error

// TaskStatus reports the poll history of one task.
type TaskStatus struct {
	MetricName string    `json:"metric_name"`
	Period     uint32    `json:"period"`
	Polls      uint64    `json:"polls"`
	Failures   uint64    `json:"failures"`
	LastCount  uint64    `json:"last_count"`
	LastError  string    `json:"last_error,omitempty"`
	LastPoll   time.Time `json:"last_poll,omitempty"`
}

// Option configures a Scheduler.
type Option func(*Scheduler)

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Scheduler) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithTracer sets the tracer used for poll spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Scheduler) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithSleep replaces the idle wait between polls.
func WithSleep(fn SleepFunc) Option {
	return func(s *Scheduler) {
		if fn != nil {
			s.sleep = fn
		}
	}
}

// WithTimestampField sets the document field the time window applies to.
func WithTimestampField(field string) Option {
	return func(s *Scheduler) {
		s.timestampField = field
	}
}

// WithClock sets the clock used for LastPoll.
func WithClock(now func() time.Time) Option {
	return func(s *Scheduler) {
		if now != nil {
			s.now = now
		}
	}
}

type job struct {
	task     domain.Task
	doc      *query.Document
	counter  *metric.Counter
	interval time.Duration

	mu     sync.Mutex
	status TaskStatus
}

// Scheduler runs one independent poll loop per task.
type Scheduler struct {
	backend  Backend
	registry *metric.Registry
	jobs     []*job

	logger         logger.Logger
	tracer         trace.Tracer
	sleep          SleepFunc
	now            func() time.Time
	timestampField string

	entropyMu sync.Mutex
	entropy   io.Reader

	mu      sync.Mutex
	cancel  context.CancelFunc
	started bool
	wg      sync.WaitGroup
}

// New builds the query document and registers the counter of every task,
// then seals the registry. Any error is a setup failure.
func New(tasks []domain.Task, backend Backend, registry *metric.Registry, opts ...Option) (*Scheduler, error) {
	if backend == nil {
		return nil, errors.New("poller: backend is required")
	}
	if registry == nil {
		return nil, errors.New("poller: registry is required")
	}

	s := &Scheduler{
		backend:  backend,
		registry: registry,
		logger:   logger.Default(),
		tracer:   noop.NewTracerProvider().Tracer(""),
		sleep:    Sleep,
		now:      time.Now,
		entropy:  ulid.Monotonic(rand.Reader, 0),
	}
	for _, opt := range opts {
		opt(s)
	}

	if err := domain.ValidateTasks(tasks); err != nil {
		return nil, err
	}

	s.jobs = make([]*job, 0, len(tasks))
	for _, t := range tasks {
		doc, err := query.ForTask(t, query.WithTimestampField(s.timestampField))
		if err != nil {
			return nil, err
		}
		counter, err := registry.RegisterTask(t)
		if err != nil {
			return nil, fmt.Errorf("register counter for %s: %w", t.MetricName, err)
		}
		s.jobs = append(s.jobs, &job{
			task:     t,
			doc:      doc,
			counter:  counter,
			interval: t.Interval(),
			status:   TaskStatus{MetricName: t.MetricName, Period: t.Period},
		})
	}
	registry.Seal()

	return s, nil
}

// Len returns the number of tasks.
func (s *Scheduler) Len() int {
	return len(s.jobs)
}

// Start spawns the poll loops. Each task polls immediately, then once per
// period until ctx is cancelled or Stop is called.
func (s *Scheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return errors.New("poller: already started")
	}
	s.started = true

	ctx, s.cancel = context.WithCancel(ctx)

	s.logger.Info("starting tasks", "count", len(s.jobs))
	for _, j := range s.jobs {
		s.wg.Add(1)
		go s.loop(ctx, j)
	}
	return nil
}

// Stop cancels every loop and waits for them to return, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	if cancel != nil {
		cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("tasks stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("tasks stop timed out")
		return ctx.Err()
	}
}

// Status returns the poll history of every task, in configuration order.
func (s *Scheduler) Status() []TaskStatus {
	out := make([]TaskStatus, len(s.jobs))
	for i, j := range s.jobs {
		j.mu.Lock()
		out[i] = j.status
		j.mu.Unlock()
	}
	return out
}

// PollOnce runs a single poll of the task at index i.
func (s *Scheduler) PollOnce(ctx context.Context, i int) error {
	if i < 0 || i >= len(s.jobs) {
		return fmt.Errorf("poller: task index %d out of range", i)
	}
	return s.poll(ctx, s.jobs[i])
}

func (s *Scheduler) loop(ctx context.Context, j *job) {
	defer s.wg.Done()

	log := s.logger.With("metric", j.task.MetricName)
	log.Debug("task started", "period", j.task.Period)

	for {
		if ctx.Err() != nil {
			break
		}
		_ = s.poll(ctx, j)

		log.Debug("sleep", "interval", j.interval)
		if err := s.sleep(ctx, j.interval); err != nil {
			break
		}
	}
	log.Debug("task finished")
}

// poll runs one backend request. A success adds the count to the task's
// counter; a failure increments the shared error counter. A request cut
// short by cancellation counts as neither.
func (s *Scheduler) poll(ctx context.Context, j *job) error {
	pollID := s.newPollID()
	ctx = logger.WithPollID(logger.WithLogger(ctx, s.logger), pollID)
	log := logger.L(ctx).With("metric", j.task.MetricName)

	ctx, span := s.tracer.Start(ctx, "poll "+j.task.MetricName,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("etp.metric", j.task.MetricName),
			attribute.String("etp.period", strconv.FormatUint(uint64(j.task.Period), 10)),
			attribute.String("etp.environment", j.task.Environment),
			attribute.String("etp.poll_id", pollID),
		),
	)
	defer span.End()

	count, err := s.backend.Count(ctx, j.doc)
	if err != nil && ctx.Err() != nil {
		log.Debug("poll cancelled", "error", err)
		return ctx.Err()
	}

	j.mu.Lock()
	j.status.Polls++
	j.status.LastPoll = s.now()
	if err != nil {
		j.status.Failures++
		j.status.LastError = err.Error()
	} else {
		j.status.LastCount = count
		j.status.LastError = ""
	}
	j.mu.Unlock()

	if err != nil {
		s.registry.ErrorCounter().Inc()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		var ee *elastic.Error
		if errors.As(err, &ee) && ee.Kind == elastic.KindUnexpectedResponse {
			log.Error("elastic error", "kind", ee.Kind.String(), "status", ee.Status, "body", ee.Body, "error", err)
		} else {
			log.Warn("elastic error", "kind", elastic.KindOf(err).String(), "error", err)
		}
		return err
	}

	j.counter.Add(float64(count))
	span.SetAttributes(attribute.Int64("etp.count", int64(count)))
	log.Info("count", "count", count)
	return nil
}

func (s *Scheduler) newPollID() string {
	s.entropyMu.Lock()
	defer s.entropyMu.Unlock()
	return ulid.MustNew(ulid.Timestamp(s.now()), s.entropy).String()
}

// Sleep waits for d or until ctx is done.
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
