package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biotech-analyzer/sponsor-cli/internal/extract"
	"github.com/biotech-analyzer/sponsor-cli/internal/report"
)

var sponsorsCmd = &cobra.Command{
	Use:   "sponsors",
	Short: "Resolve clinical trial sponsors to public companies",
	Long: `Reads the pipe-delimited trial sponsor table, keeps industry-class
sponsors, and resolves each sponsor name to its Wikidata entity. Corporate
lineage is followed to the current successor, and tickers and exchanges
are collected into a CSV report.

Examples:
  # Resolve all industry sponsors
  sponsors --sponsors-file sponsors.txt --output sponsors_resolved.csv

  # Dry run on the first 50 trials
  sponsors --sponsors-file sponsors.txt --limit 50

  # Parallel resolution with 4 workers
  sponsors --sponsors-file sponsors.txt --concurrency 4`,
	RunE: runSponsors,
}

func init() {
	f := sponsorsCmd.Flags()
	f.String("sponsors-file", "sponsors.txt", "pipe-delimited trial sponsor table")
	f.Int("limit", 0, "maximum number of trials to resolve (0=all)")
	f.String("output", "sponsors_resolved.csv", "output CSV path")
	f.String("unresolved", "unresolved_sponsors.csv", "unresolved name list path")
	f.Int("concurrency", 0, "parallel resolution workers (0=use config default)")

	rootCmd.AddCommand(sponsorsCmd)
}

func runSponsors(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "sponsors"))

	path, _ := cmd.Flags().GetString("sponsors-file")
	limit, _ := cmd.Flags().GetInt("limit")
	outputPath, _ := cmd.Flags().GetString("output")
	unresolvedPath, _ := cmd.Flags().GetString("unresolved")
	concurrency := workerCount(cmd)

	trials, err := extract.LoadIndustrySponsors(ctx, path)
	if err != nil {
		return eris.Wrap(err, "sponsors: load trials")
	}
	if limit > 0 && limit < len(trials) {
		trials = trials[:limit]
	}

	log.Info("resolving trial sponsors",
		zap.Int("trials", len(trials)),
		zap.Int("concurrency", concurrency),
	)

	resolver := newResolver()
	rows := make([]report.SponsorRow, len(trials))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, trial := range trials {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			rows[i] = report.SponsorRow{
				Trial:      trial,
				Resolution: resolver.ResolveTrial(gctx, trial.NCTID, trial.Name),
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "sponsors: resolve")
	}

	if err := report.ExportSponsorCSV(outputPath, rows); err != nil {
		return err
	}

	unresolved := resolver.Unresolved()
	if len(unresolved) > 0 {
		if err := report.ExportUnresolved(unresolvedPath, unresolved); err != nil {
			return err
		}
	}

	resolved := 0
	for _, r := range rows {
		if r.Resolution.Resolved() {
			resolved++
		}
	}
	log.Info("sponsor resolution complete",
		zap.Int("trials", len(rows)),
		zap.Int("resolved", resolved),
		zap.Int("unresolved", len(unresolved)),
	)
	fmt.Printf("Resolved %d/%d trial sponsors -> %s\n", resolved, len(rows), outputPath)
	if len(unresolved) > 0 {
		fmt.Printf("%d unresolved names -> %s\n", len(unresolved), unresolvedPath)
	}

	return nil
}

// workerCount returns the effective parallelism: the --concurrency flag
// when set, the config default otherwise, never less than one.
func workerCount(cmd *cobra.Command) int {
	n, _ := cmd.Flags().GetInt("concurrency")
	if n <= 0 {
		n = cfg.Resolve.Concurrency
	}
	if n <= 0 {
		n = 1
	}
	return n
}
