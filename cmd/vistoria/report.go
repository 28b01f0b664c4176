package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync/atomic"

	"github.com/spf13/cobra"

	"github.com/nao1215/vistoria/internal/config"
	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/pipeline"
	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/summary"
)

// NewReportCmd creates the report command.
func NewReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [index]",
		Short: "Build the non-conformity report of an inspection",
		Long: `Report builds the non-conformity report of one inspection, grouping
the answers by vehicle area. The index is the one printed by
'vistoria list'; 0 is the newest inspection.

With --all, the report of every inspection is written into the output
directory, one file per inspection, named after the vehicle prefix and
the inspection date.

Examples:
  # Print the report of the newest inspection
  vistoria report 0

  # Write it as Markdown
  vistoria report 0 -f markdown -o relatorio.md

  # Export every inspection
  vistoria report --all -o relatorios/`,
		Args: cobra.MaximumNArgs(1),
		RunE: runReportCmd,
	}

	addSourceFlags(cmd)
	addFormatFlag(cmd)
	cmd.Flags().BoolP("all", "a", false, "Export the report of every inspection")
	cmd.Flags().StringP("output", "o", "",
		"Output file (directory with --all; default: stdout, or the current directory with --all)")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize, "Number of reports built concurrently with --all")

	return cmd
}

func runReportCmd(cmd *cobra.Command, args []string) error {
	all, err := cmd.Flags().GetBool("all")
	if err != nil {
		return err
	}
	if all && len(args) > 0 {
		return errors.New("an index cannot be combined with --all")
	}
	if !all && len(args) == 0 {
		return errors.New("an inspection index is required (see 'vistoria list'), or use --all")
	}

	index := -1
	if !all {
		index, err = strconv.Atoi(args[0])
		if err != nil || index < 0 {
			return fmt.Errorf("invalid inspection index %q", args[0])
		}
	}

	output, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}
	if all && output != "" {
		cfg.OutputDir = output
	}

	format, err := report.ParseFormat(cfg.Format)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	res, err := fetchDataset(ctx, cfg, logger)
	if err != nil {
		return err
	}
	mapping := loadMapping(cfg, logger)

	if all {
		return exportAll(ctx, cmd.OutOrStdout(), cfg, format, res.Dataset, mapping, logger)
	}
	return writeOne(ctx, cmd.OutOrStdout(), output, format, res.Dataset, index, mapping, logger)
}

// writeOne builds one report and writes it to path, or to out when path
// is empty.
func writeOne(
	ctx context.Context,
	out io.Writer,
	path string,
	format report.Format,
	d *model.Dataset,
	index int,
	mapping *model.ColumnMapping,
	logger *slog.Logger,
) error {
	rep, err := pipeline.BuildReport(ctx, d, index, mapping, pipeline.WithLogger(logger))
	if errors.Is(err, pipeline.ErrRecordNotFound) {
		return fmt.Errorf("inspection %d not found (%d inspections available)", index, d.Len())
	}
	if err != nil {
		return fmt.Errorf("failed to build report %d: %w", index, err)
	}

	if path == "" {
		w, err := report.New(format, out)
		if err != nil {
			return err
		}
		_, err = w.Write(rep)
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600) //nolint:gosec // User-provided output path is intentional
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w, err := report.New(format, f)
	if err != nil {
		_ = f.Close() //nolint:errcheck // the format error is more useful
		return err
	}
	if _, err := w.Write(rep); err != nil {
		_ = f.Close() //nolint:errcheck // the write error is more useful
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", path, err)
	}

	fmt.Fprintf(out, "Report written to %s\n", path)
	return nil
}

// exportAll writes the report of every record into cfg.OutputDir.
func exportAll(
	ctx context.Context,
	out io.Writer,
	cfg *config.Config,
	format report.Format,
	d *model.Dataset,
	mapping *model.ColumnMapping,
	logger *slog.Logger,
) error {
	if d.Empty() {
		fmt.Fprintln(out, "No inspections found.")
		return nil
	}

	if err := os.MkdirAll(cfg.OutputDir, 0o750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	index := summary.NewIndex(d.Columns())
	names := pipeline.NewExportNames()
	bp := pipeline.NewBatchProcessor(func() *pipeline.Pipeline {
		p := pipeline.NewReportPipeline(index, mapping, pipeline.WithLogger(logger))
		p.AddStep(pipeline.NewExportStep(cfg.OutputDir, format,
			pipeline.WithExportNames(names), pipeline.WithExportLogger(logger)))
		return p
	}, pipeline.WithConcurrency(cfg.BatchSize), pipeline.WithBatchLogger(logger))

	var failed atomic.Int64
	err := bp.ProcessBatchWithCallback(ctx, d, func(r *model.Report, _ int) {
		if r.Error != "" {
			failed.Add(1)
		}
	})
	if err != nil {
		return fmt.Errorf("export interrupted: %w", err)
	}

	n := failed.Load()
	fmt.Fprintf(out, "Exported %d of %d reports to %s\n", int64(d.Len())-n, d.Len(), cfg.OutputDir)
	if n > 0 {
		return fmt.Errorf("%d reports failed (run with --verbose for details)", n)
	}
	return nil
}
