// Package query builds backend count-query documents for tasks.
package query

import (
	"encoding/json"
	"fmt"

	"github.com/yndnr/etp-go/internal/core/domain"
)

// DefaultTimestampField is the document field the time window applies to.
const DefaultTimestampField = "@timestamp"

// Document is a backend count-query document.
//
// A Document is immutable once built. Its time window is expressed relative
// to the backend's clock ("now-5m".."now"), so the same Document is reused on
// every poll and re-evaluated by the backend each time it is sent.
type Document struct {
	filter  []domain.Clause
	mustNot []domain.Clause
	window  Window
}

// Option configures Build.
type Option func(*options)

type options struct {
	timestampField string
}

// WithTimestampField sets the field the range clause is applied to.
func WithTimestampField(field string) Option {
	return func(o *options) {
		if field != "" {
			o.timestampField = field
		}
	}
}

// Build composes filter and mustNot with a trailing window of period minutes.
//
// The filter clauses and the synthesized range clause are combined with AND.
// mustNot clauses form the negative branch and are omitted when empty.
func Build(filter, mustNot []domain.Clause, period uint32, opts ...Option) (*Document, error) {
	if period == 0 {
		return nil, domain.ErrInvalidPeriod
	}

	o := options{timestampField: DefaultTimestampField}
	for _, opt := range opts {
		opt(&o)
	}

	doc := &Document{
		filter: append([]domain.Clause(nil), filter...),
		window: RelativeWindow(o.timestampField, period),
	}
	if len(mustNot) > 0 {
		doc.mustNot = append([]domain.Clause(nil), mustNot...)
	}
	return doc, nil
}

// ForTask builds the document for a task.
func ForTask(t domain.Task, opts ...Option) (*Document, error) {
	doc, err := Build(t.Filter, t.MustNot, t.Period, opts...)
	if err != nil {
		return nil, fmt.Errorf("build query for %s: %w", t.MetricName, err)
	}
	return doc, nil
}

// Window returns the synthesized range clause.
func (d *Document) Window() Window {
	return d.window
}

// Filter returns a copy of the positive clauses, excluding the range clause.
func (d *Document) Filter() []domain.Clause {
	return append([]domain.Clause(nil), d.filter...)
}

// MustNot returns a copy of the negative clauses.
func (d *Document) MustNot() []domain.Clause {
	return append([]domain.Clause(nil), d.mustNot...)
}

// Body returns the document as a generic map, shaped for the backend.
func (d *Document) Body() map[string]any {
	filter := make([]any, 0, len(d.filter)+1)
	for _, c := range d.filter {
		filter = append(filter, c)
	}
	filter = append(filter, d.window.Clause())

	boolQuery := map[string]any{"filter": filter}
	if len(d.mustNot) > 0 {
		mustNot := make([]any, 0, len(d.mustNot))
		for _, c := range d.mustNot {
			mustNot = append(mustNot, c)
		}
		boolQuery["must_not"] = mustNot
	}

	return map[string]any{
		"query": map[string]any{
			"bool": boolQuery,
		},
	}
}

// MarshalJSON implements json.Marshaler. Map keys are sorted by
// encoding/json, so equal documents encode to identical bytes.
func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.Body())
}
