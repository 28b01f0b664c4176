package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/nao1215/vistoria/internal/assemble"
	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/summary"
)

// SummaryStep extracts the identification fields of a record.
type SummaryStep struct {
	index *summary.Index
}

// NewSummaryStep creates a summary step. The index is built once per
// dataset and shared by every record.
func NewSummaryStep(index *summary.Index) *SummaryStep {
	return &SummaryStep{index: index}
}

// Name returns the step name.
func (s *SummaryStep) Name() string {
	return "summary"
}

// Do executes the summary step.
func (s *SummaryStep) Do(_ context.Context, rec *Record) error {
	rec.Report.Summary = s.index.Extract(rec.Row)
	return nil
}

// AssembleStep builds the report body of a record.
type AssembleStep struct {
	mapping *model.ColumnMapping
}

// NewAssembleStep creates an assemble step. A nil or empty mapping
// enables the keyword heuristic.
func NewAssembleStep(mapping *model.ColumnMapping) *AssembleStep {
	return &AssembleStep{mapping: mapping}
}

// Name returns the step name.
func (s *AssembleStep) Name() string {
	return "assemble"
}

// Do executes the assemble step.
func (s *AssembleStep) Do(_ context.Context, rec *Record) error {
	rec.Report.Document = assemble.Assemble(rec.Row, s.mapping)
	return nil
}

// ExportNames tracks the file names claimed during one export run.
// Export steps sharing it overwrite files left by earlier runs and only
// de-duplicate names claimed within the run.
type ExportNames struct {
	claimed sync.Map
}

// NewExportNames creates an empty claim set.
func NewExportNames() *ExportNames {
	return &ExportNames{}
}

// claim reports whether name was still free in this run.
func (n *ExportNames) claim(name string) bool {
	_, loaded := n.claimed.LoadOrStore(name, struct{}{})
	return !loaded
}

// ExportStep writes the rendered report of a record into a directory.
type ExportStep struct {
	dir    string
	format report.Format
	names  *ExportNames
	logger *slog.Logger
}

// ExportStepOption configures an ExportStep.
type ExportStepOption func(*ExportStep)

// WithExportLogger sets a custom logger for the export step.
func WithExportLogger(logger *slog.Logger) ExportStepOption {
	return func(s *ExportStep) {
		s.logger = logger
	}
}

// WithExportNames shares a claim set between the export steps of one run.
func WithExportNames(names *ExportNames) ExportStepOption {
	return func(s *ExportStep) {
		s.names = names
	}
}

// NewExportStep creates an export step writing files of the given format
// into dir, which must exist.
func NewExportStep(dir string, format report.Format, opts ...ExportStepOption) *ExportStep {
	s := &ExportStep{
		dir:    dir,
		format: format,
		names:  NewExportNames(),
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Name returns the step name.
func (s *ExportStep) Name() string {
	return "export"
}

// Do renders the report and writes it. Files follow the export naming
// convention and replace files from earlier runs; when two records of the
// same run share prefix and date, the record index is appended to keep both.
func (s *ExportStep) Do(_ context.Context, rec *Record) error {
	name := report.FilenameFor(rec.Report, s.format)
	if !s.names.claim(name) {
		ext := filepath.Ext(name)
		name = strings.TrimSuffix(name, ext) + "_" + strconv.Itoa(rec.Report.Index) + ext
		s.names.claim(name)
	}
	path := filepath.Join(s.dir, name)

	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}

	w, err := report.New(s.format, f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // the format error is more useful
		return err
	}
	if _, err := w.Write(rec.Report); err != nil {
		_ = f.Close() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", name, err)
	}

	s.logger.Info("report exported", "record", rec.Report.Index, "file", path)
	return nil
}

// NewReportPipeline creates the pipeline that builds one report:
// summary extraction followed by assembly.
func NewReportPipeline(index *summary.Index, mapping *model.ColumnMapping, opts ...Option) *Pipeline {
	p := New(opts...)
	p.AddSteps(NewSummaryStep(index), NewAssembleStep(mapping))
	return p
}

// ErrRecordNotFound is returned when a record index is out of range.
var ErrRecordNotFound = errors.New("record not found")

// BuildReport builds the report of the i-th record of a dataset.
func BuildReport(ctx context.Context, d *model.Dataset, i int, mapping *model.ColumnMapping, opts ...Option) (*model.Report, error) {
	row, ok := d.Row(i)
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrRecordNotFound, i)
	}

	rec := NewRecord(i, row)
	p := NewReportPipeline(summary.NewIndex(d.Columns()), mapping, opts...)
	if err := p.Execute(ctx, rec); err != nil {
		return rec.Report, err
	}
	return rec.Report, nil
}
