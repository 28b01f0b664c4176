package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for vistoria.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vistoria",
		Short: "Build non-conformity reports from vehicle inspections",
		Long: `vistoria reads the answers of the vehicle inspection form and builds,
for each inspection, a report of the non-conformities grouped by vehicle
area (cockpit, salon, sanitary, exterior and so on).

Inspections are read from the remote spreadsheet when one is configured,
falling back to a local CSV export or XLSX workbook.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Configuration file path (default: .vistoria in current or home directory)")

	cmd.AddCommand(NewListCmd())
	cmd.AddCommand(NewReportCmd())
	cmd.AddCommand(NewDashboardCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCacheCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewHashPasswordCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
