package main

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/vistoria/internal/database"
)

// NewCacheCmd creates the cache command and its subcommands.
func NewCacheCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Inspect or clear the dataset cache",
		Long: `Fetched datasets are stored in a local database and served again while
younger than the cache TTL. The database lives in the XDG cache directory
unless the configuration file sets cache.dir.`,
	}

	cmd.AddCommand(newCacheListCmd())
	cmd.AddCommand(newCacheClearCmd())

	return cmd
}

func newCacheListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the cached datasets of the configured sources",
		Args:  cobra.NoArgs,
		RunE:  runCacheListCmd,
	}
	addSourceFlags(cmd)
	return cmd
}

func runCacheListCmd(cmd *cobra.Command, _ []string) error {
	cfg, logger, err := setup(cmd)
	if err != nil {
		return err
	}

	chain, err := newChain(cfg, logger)
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.Options{})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "No cached datasets.")
		return nil //nolint:nilerr // a missing database is an empty cache
	}
	defer db.Close()

	snaps, err := db.ListSnapshots(cmd.Context(), chain.Key())
	if err != nil {
		return err
	}
	if len(snaps) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cached datasets.")
		return nil
	}

	now := time.Now()
	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSOURCE\tRECORDS\tAGE\tFRESH")
	for _, s := range snaps {
		age := s.Age(now)
		fresh := "no"
		if cfg.CacheTTL > 0 && age <= cfg.CacheTTL {
			fresh = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", s.ID, s.ServedBy, s.RowCount, age.Truncate(time.Second), fresh)
	}
	return tw.Flush()
}

func newCacheClearCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "clear",
		Short: "Remove cached datasets",
		Long: `Clear removes every cached dataset, or only the ones older than
--older-than.`,
		Args: cobra.NoArgs,
		RunE: runCacheClearCmd,
	}
	cmd.Flags().Duration("older-than", 0, "Only remove datasets older than this")
	return cmd
}

func runCacheClearCmd(cmd *cobra.Command, _ []string) error {
	cfg, _, err := setup(cmd)
	if err != nil {
		return err
	}

	olderThan, err := cmd.Flags().GetDuration("older-than")
	if err != nil {
		return err
	}

	db, err := database.Open(cfg.DBDir, database.Options{})
	if err != nil {
		fmt.Fprintln(cmd.OutOrStdout(), "Removed 0 cached datasets.")
		return nil //nolint:nilerr // a missing database is an empty cache
	}
	defer db.Close()

	n, err := db.PruneSnapshots(cmd.Context(), olderThan)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d cached datasets.\n", n)
	return nil
}
