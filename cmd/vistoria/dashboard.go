package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/spf13/cobra"

	"github.com/nao1215/vistoria/internal/model"
	"github.com/nao1215/vistoria/internal/report"
	"github.com/nao1215/vistoria/internal/summary"
)

// NewDashboardCmd creates the dashboard command.
func NewDashboardCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dashboard",
		Short: "Print the inspection dashboard",
		Long: `Dashboard prints the management panel: total inspections, distinct
cities, distinct inspectors and the date of the latest inspection.`,
		Args: cobra.NoArgs,
		RunE: runDashboardCmd,
	}

	addSourceFlags(cmd)
	addFormatFlag(cmd)

	return cmd
}

func runDashboardCmd(cmd *cobra.Command, _ []string) error {
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

	return writeDashboard(cmd.OutOrStdout(), format, res.Source, summary.Dashboard(res.Dataset))
}

// writeDashboard renders the dashboard in the requested format.
func writeDashboard(w io.Writer, format report.Format, src string, d model.Dashboard) error {
	switch format {
	case report.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(struct {
			Source string `json:"source"`
			model.Dashboard
		}{Source: src, Dashboard: d})
	case report.FormatMarkdown:
		md := markdown.NewMarkdown(w)
		md.H1("Painel Gerencial")
		md.PlainText("")
		md.Table(markdown.TableSet{
			Header: []string{"Indicador", "Valor"},
			Rows: [][]string{
				{"Total de Vistorias", strconv.Itoa(d.TotalRecords)},
				{"Cidades", strconv.Itoa(d.Cities)},
				{"Vistoriadores", strconv.Itoa(d.Inspectors)},
				{"Última Vistoria", d.LastInspection},
				{"Fonte", src},
			},
		})
		return md.Build()
	default:
		_, err := fmt.Fprintf(w,
			"Total de Vistorias: %d\nCidades:            %d\nVistoriadores:      %d\nÚltima Vistoria:    %s\nFonte:              %s\n",
			d.TotalRecords, d.Cities, d.Inspectors, d.LastInspection, src)
		return err
	}
}
