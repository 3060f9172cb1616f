// Package engine runs SMS messages through categorization and record
// building, committing accepted records and rejected bodies in corpus order.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/Veraticus/momo-ledger/internal/extract"
	"github.com/Veraticus/momo-ledger/internal/metrics"
	"github.com/Veraticus/momo-ledger/internal/model"
	"github.com/Veraticus/momo-ledger/internal/service"
)

// Run statuses reported to the metrics collector.
const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusCanceled  = "canceled"
)

// Config holds configuration options for the pipeline.
type Config struct {
	Metrics metrics.Collector
	// OnProgress is called on the calling goroutine after each message is settled.
	OnProgress func(done, total int)
	RunID      string
	// Workers above one fans categorize and build out; commits stay sequential.
	Workers int
	// Window bounds how many outcomes are computed ahead of the commit cursor.
	Window int
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Metrics: metrics.NoOpCollector{},
		Workers: 1,
		Window:  256,
	}
}

// Pipeline orchestrates one pass over a corpus.
type Pipeline struct {
	categorizer Categorizer
	builder     RecordBuilder
	sink        service.TransactionSink
	rejects     RejectionSink
	config      Config
}

// Report summarizes a run. Indexes are positions in the input slice.
type Report struct {
	Accepted           []model.TransactionRecord
	Rejected           []string
	Total              int
	CastErrors         int
	LastCommittedIndex int
	Duration           time.Duration
}

// New creates a sequential pipeline with default configuration.
func New(categorizer Categorizer, builder RecordBuilder, sink service.TransactionSink, rejects RejectionSink) *Pipeline {
	return NewWithConfig(categorizer, builder, sink, rejects, DefaultConfig())
}

// NewWithConfig creates a pipeline with custom configuration.
func NewWithConfig(categorizer Categorizer, builder RecordBuilder, sink service.TransactionSink, rejects RejectionSink, config Config) *Pipeline {
	defaults := DefaultConfig()
	if config.Metrics == nil {
		config.Metrics = defaults.Metrics
	}
	if config.Workers <= 0 {
		config.Workers = defaults.Workers
	}
	if config.Window <= 0 {
		config.Window = defaults.Window
	}
	return &Pipeline{
		categorizer: categorizer,
		builder:     builder,
		sink:        sink,
		rejects:     rejects,
		config:      config,
	}
}

// outcome is the side-effect-free result of categorizing and building one message.
type outcome struct {
	castErrs []*extract.Error
	record   model.TransactionRecord
	category model.Category
	rejected bool
}

// Run processes corpus. Every message ends accepted or rejected. On a sink
// failure or cancellation the partial report is returned with the error.
func (p *Pipeline) Run(ctx context.Context, corpus []model.RawMessage) (*Report, error) {
	return p.run(ctx, p.config.RunID, corpus)
}

func (p *Pipeline) run(ctx context.Context, runID string, corpus []model.RawMessage) (*Report, error) {
	start := time.Now()
	report := &Report{
		Total:              len(corpus),
		LastCommittedIndex: -1,
	}

	slog.Info("Starting ingestion",
		"run_id", runID,
		"messages", len(corpus),
		"workers", p.config.Workers)

	err := p.process(ctx, runID, corpus, report)
	report.Duration = time.Since(start)

	status := StatusCompleted
	switch {
	case err == nil:
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		status = StatusCanceled
	default:
		status = StatusFailed
	}
	p.config.Metrics.RecordRun(status, report.Duration)

	if err != nil {
		slog.Error("Ingestion stopped",
			"run_id", runID,
			"status", status,
			"last_committed_index", report.LastCommittedIndex,
			"error", err)
		return report, err
	}

	slog.Info("Ingestion complete",
		"run_id", runID,
		"total", report.Total,
		"accepted", len(report.Accepted),
		"rejected", len(report.Rejected),
		"cast_errors", report.CastErrors,
		"duration", report.Duration)
	return report, nil
}

func (p *Pipeline) process(ctx context.Context, runID string, corpus []model.RawMessage, report *Report) error {
	if p.config.Workers <= 1 {
		for i, msg := range corpus {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.commit(ctx, runID, i, msg.Body, p.evaluate(i, msg.Body), report); err != nil {
				return err
			}
		}
		return nil
	}

	for lo := 0; lo < len(corpus); lo += p.config.Window {
		hi := min(lo+p.config.Window, len(corpus))

		outcomes, err := p.evaluateWindow(ctx, corpus[lo:hi], lo)
		if err != nil {
			return err
		}
		for j, o := range outcomes {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := p.commit(ctx, runID, lo+j, corpus[lo+j].Body, o, report); err != nil {
				return err
			}
		}
	}
	return nil
}

// evaluateWindow computes outcomes concurrently; results keep input order.
func (p *Pipeline) evaluateWindow(ctx context.Context, window []model.RawMessage, offset int) ([]outcome, error) {
	outcomes := make([]outcome, len(window))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)
	for j := range window {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			outcomes[j] = p.evaluate(offset+j, window[j].Body)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// evaluate categorizes and builds one body without side effects.
func (p *Pipeline) evaluate(index int, body string) outcome {
	category := p.categorizer.Categorize(body)
	if category == model.CategoryUnrecognized {
		return outcome{category: category, rejected: true}
	}

	rec, err := p.builder.Build(body, category)
	if err == nil {
		return outcome{category: category, record: rec}
	}

	if errors.Is(err, extract.ErrUnbuildableCategory) {
		slog.Warn("Categorizer produced a category with no record shape",
			"index", index,
			"category", category)
		return outcome{category: model.CategoryUnrecognized, rejected: true}
	}

	return outcome{category: category, record: rec, castErrs: castErrors(err)}
}

// commit performs the single side effect for message index.
func (p *Pipeline) commit(ctx context.Context, runID string, index int, body string, o outcome, report *Report) error {
	defer func() {
		if p.config.OnProgress != nil {
			p.config.OnProgress(report.LastCommittedIndex+1, report.Total)
		}
	}()

	if o.rejected {
		if err := p.rejects.Reject(ctx, index, body); err != nil {
			return &SinkError{Sink: SinkRejects, Index: index, Committed: report.LastCommittedIndex, Err: err}
		}
		slog.Debug("Rejected message", "index", index)
		report.Rejected = append(report.Rejected, body)
		report.LastCommittedIndex = index
		p.config.Metrics.RecordMessage(string(model.CategoryUnrecognized), metrics.OutcomeRejected)
		return nil
	}

	for _, ce := range o.castErrs {
		slog.Warn("Field value could not be converted",
			"index", index,
			"field", ce.Target,
			"capture", ce.Capture,
			"error", ce.Err)
		p.config.Metrics.RecordCastError(string(ce.Target))
	}
	report.CastErrors += len(o.castErrs)

	rec := o.record
	rec.RunID = runID
	rec.SourceIndex = index

	started := time.Now()
	id, err := p.sink.Insert(ctx, runID, index, rec)
	p.config.Metrics.RecordSinkWrite(err == nil, time.Since(started))
	if err != nil {
		return &SinkError{Sink: SinkStore, Index: index, Committed: report.LastCommittedIndex, Err: err}
	}

	rec.ID = id
	report.Accepted = append(report.Accepted, rec)
	report.LastCommittedIndex = index
	p.config.Metrics.RecordMessage(string(o.category), metrics.OutcomeAccepted)
	return nil
}

// castErrors flattens a joined build error into its per-field parts.
func castErrors(err error) []*extract.Error {
	var parts []error
	if joined, ok := err.(interface{ Unwrap() []error }); ok {
		parts = joined.Unwrap()
	} else {
		parts = []error{err}
	}

	out := make([]*extract.Error, 0, len(parts))
	for _, part := range parts {
		var ce *extract.Error
		if errors.As(part, &ce) {
			out = append(out, ce)
			continue
		}
		out = append(out, &extract.Error{Err: fmt.Errorf("%w: %v", extract.ErrCast, part)})
	}
	return out
}
