package main

import (
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/biotech-analyzer/sponsor-cli/internal/extract"
	"github.com/biotech-analyzer/sponsor-cli/internal/report"
	"github.com/biotech-analyzer/sponsor-cli/internal/resolve"
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Resolve drug product sponsors to public companies",
	Long: `Streams an openFDA drug application dump, groups products by sponsor,
and resolves each sponsor name to its Wikidata entity. Every product row
in the output carries its sponsor's resolved company, tickers, exchanges,
and lifecycle status.

Examples:
  # Resolve every sponsor in the dump
  products --input data/drug-drugsfda-0001-of-0001.json

  # Only sponsors whose name contains "pharma"
  products --filter pharma

  # First 20 sponsors, 4 parallel workers
  products --limit 20 --concurrency 4`,
	RunE: runProducts,
}

func init() {
	f := productsCmd.Flags()
	f.String("input", "data/drug-drugsfda-0001-of-0001.json", "openFDA drug application JSON dump")
	f.Int("limit", 0, "maximum number of sponsors to resolve (0=all)")
	f.String("filter", "", "only sponsors whose name contains this substring (case-insensitive)")
	f.String("output", "products.csv", "output CSV path")
	f.String("unresolved", "unresolved_sponsors.csv", "unresolved name list path")
	f.Int("concurrency", 0, "parallel resolution workers (0=use config default)")

	rootCmd.AddCommand(productsCmd)
}

func runProducts(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	log := zap.L().With(zap.String("command", "products"))

	inputPath, _ := cmd.Flags().GetString("input")
	limit, _ := cmd.Flags().GetInt("limit")
	filter, _ := cmd.Flags().GetString("filter")
	outputPath, _ := cmd.Flags().GetString("output")
	unresolvedPath, _ := cmd.Flags().GetString("unresolved")
	concurrency := workerCount(cmd)

	f, err := os.Open(inputPath)
	if err != nil {
		return eris.Wrapf(err, "products: open %s", inputPath)
	}
	groups, err := extract.LoadSponsorProducts(ctx, f)
	f.Close()
	if err != nil {
		return eris.Wrap(err, "products: extract")
	}

	if filter != "" {
		needle := strings.ToLower(filter)
		kept := groups[:0]
		for _, g := range groups {
			if strings.Contains(strings.ToLower(g.Sponsor), needle) {
				kept = append(kept, g)
			}
		}
		groups = kept
	}
	if limit > 0 && limit < len(groups) {
		groups = groups[:limit]
	}

	log.Info("resolving product sponsors",
		zap.Int("sponsors", len(groups)),
		zap.Int("concurrency", concurrency),
	)

	resolver := newResolver()
	resolutions := make([]resolve.Resolution, len(groups))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)
	for i, group := range groups {
		g.Go(func() error {
			if gctx.Err() != nil {
				return gctx.Err()
			}
			resolutions[i] = resolver.Resolve(gctx, group.Sponsor)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return eris.Wrap(err, "products: resolve")
	}

	var rows []report.ProductRow
	for i, group := range groups {
		for _, p := range group.Products {
			rows = append(rows, report.ProductRow{
				Product:    p,
				Sponsor:    group.Sponsor,
				Resolution: resolutions[i],
			})
		}
	}

	if err := report.ExportProductCSV(outputPath, rows); err != nil {
		return err
	}

	unresolved := resolver.Unresolved()
	if len(unresolved) > 0 {
		if err := report.ExportUnresolved(unresolvedPath, unresolved); err != nil {
			return err
		}
	}

	log.Info("product resolution complete",
		zap.Int("sponsors", len(groups)),
		zap.Int("products", len(rows)),
		zap.Int("unresolved", len(unresolved)),
	)
	fmt.Printf("Wrote %d product rows for %d sponsors -> %s\n", len(rows), len(groups), outputPath)
	if len(unresolved) > 0 {
		fmt.Printf("%d unresolved names -> %s\n", len(unresolved), unresolvedPath)
	}

	return nil
}
