package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/biotech-analyzer/sponsor-cli/internal/config"
	"github.com/biotech-analyzer/sponsor-cli/internal/resolve"
	"github.com/biotech-analyzer/sponsor-cli/pkg/wikidata"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "sponsor-cli",
	Short: "Biotech sponsor resolution pipeline",
	Long:  "Resolves clinical trial sponsors and drug manufacturers to canonical Wikidata entities, following corporate lineage to current stock tickers and exchanges.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newGraphClient builds the Wikidata client from configuration.
func newGraphClient() wikidata.Client {
	return wikidata.NewClient(cfg.Wikidata.UserAgent,
		wikidata.WithSPARQLEndpoint(cfg.Wikidata.SPARQLEndpoint),
		wikidata.WithSearchEndpoint(cfg.Wikidata.SearchEndpoint),
		wikidata.WithQueryTimeout(time.Duration(cfg.Wikidata.QueryTimeoutSecs)*time.Second),
		wikidata.WithSearchTimeout(time.Duration(cfg.Wikidata.SearchTimeoutSecs)*time.Second),
		wikidata.WithRetry(cfg.Retry.ToResilience()),
		wikidata.WithRateLimit(cfg.Wikidata.RatePerSec, cfg.Wikidata.RateBurst),
	)
}

// newResolver builds a Resolver with a fresh per-run cache.
func newResolver() *resolve.Resolver {
	return resolve.NewResolver(newGraphClient(),
		resolve.WithSearchLimit(cfg.Resolve.SearchLimit),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
