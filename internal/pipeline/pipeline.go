package pipeline

import (
	"context"
	"log/slog"

	"github.com/nao1215/vistoria/internal/model"
)

// Record is the unit of work of a pipeline: one dataset row and the report
// built from it.
type Record struct {
	// Row is the source row. Steps must not modify it.
	Row model.Row

	// Report accumulates the results of the steps.
	Report *model.Report
}

// NewRecord creates a record for the row at index i.
func NewRecord(i int, row model.Row) *Record {
	return &Record{Row: row, Report: model.NewReport(i)}
}

// Step is one stage of report production. Each step sees the record as
// left by the steps before it.
//
// Design decision: Steps are an interface rather than plain functions
// because they carry configuration (column index, mapping, output
// directory) and report a name in the logs.
type Step interface {
	// Do applies the step to rec.
	Do(ctx context.Context, rec *Record) error

	// Name identifies the step in logs and in Report.Steps.
	Name() string
}

// Pipeline runs its steps in order against one record at a time.
// A Pipeline holds no per-record state.
type Pipeline struct {
	steps  []Step
	logger *slog.Logger

	// continueOnError keeps running the remaining steps after a failure.
	continueOnError bool
}

// Option configures a Pipeline.
type Option func(*Pipeline)

// WithLogger sets the logger of step progress and failures.
// slog.Default() is used otherwise.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithContinueOnError runs the remaining steps after one fails. The
// failure is recorded in Report.Error either way.
func WithContinueOnError(continueOnError bool) Option {
	return func(p *Pipeline) {
		p.continueOnError = continueOnError
	}
}

// New creates an empty pipeline.
func New(opts ...Option) *Pipeline {
	p := &Pipeline{logger: slog.Default()}
	for _, opt := range opts {
		opt(p)
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	return p
}

// AddStep appends step; it runs after the steps already added.
func (p *Pipeline) AddStep(step Step) {
	p.steps = append(p.steps, step)
}

// AddSteps appends steps in order.
func (p *Pipeline) AddSteps(steps ...Step) {
	p.steps = append(p.steps, steps...)
}

// Execute applies every step to rec. The context is checked between
// steps only; steps themselves are short.
//
// A failing step stops the pipeline and its error is returned, unless
// continueOnError is set. In both cases the last failure is written to
// rec.Report.Error.
func (p *Pipeline) Execute(ctx context.Context, rec *Record) error {
	idx := rec.Report.Index
	for _, step := range p.steps {
		if err := ctx.Err(); err != nil {
			p.logger.Warn("pipeline cancelled", "step", step.Name(), "record", idx, "reason", err)
			rec.Report.Error = err.Error()
			return err
		}

		p.logger.Debug("running step", "step", step.Name(), "record", idx)

		if err := step.Do(ctx, rec); err != nil {
			p.logger.Error("step failed", "step", step.Name(), "record", idx, "error", err)
			rec.Report.Error = err.Error()
			if !p.continueOnError {
				return err
			}
			continue
		}

		rec.Report.Steps = append(rec.Report.Steps, step.Name())
	}
	return nil
}

// StepCount returns the number of steps.
func (p *Pipeline) StepCount() int {
	return len(p.steps)
}

// StepNames returns the step names in execution order.
func (p *Pipeline) StepNames() []string {
	names := make([]string, 0, len(p.steps))
	for _, step := range p.steps {
		names = append(names, step.Name())
	}
	return names
}
