package main

import (
	"github.com/spf13/cobra"

	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/summary"
)

// NewListCmd creates the list command.
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List inspections with the dashboard",
		Long: `List prints the dashboard (total inspections, cities, inspectors and
the latest inspection date) followed by one line per inspection, newest
first. The last column is the index used by 'vistoria report'.

Examples:
  # List inspections from the local workbook
  vistoria list

  # List inspections from a CSV export as Markdown
  vistoria list --csv respostas.csv -f markdown`,
		Args: cobra.NoArgs,
		RunE: runListCmd,
	}

	addSourceFlags(cmd)
	addFormatFlag(cmd)

	return cmd
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
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

	w, err := report.New(format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	_, err = w.WriteListing(summary.Listing(res.Dataset, res.Source))
	return err
}
