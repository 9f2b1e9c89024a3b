package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
)

var tickerCmd = &cobra.Command{
	Use:   "ticker SYMBOL",
	Short: "Look up a company by stock ticker and list its products",
	Long: `Resolves a stock ticker symbol to its Wikidata company entity, following
listing items such as ADRs to the underlying company, then lists the
commercial products linked to that company.

Examples:
  ticker JNJ
  ticker AZN`,
	Args: cobra.ExactArgs(1),
	RunE: runTicker,
}

func init() {
	tickerCmd.Flags().Bool("no-products", false, "skip the product listing")

	rootCmd.AddCommand(tickerCmd)
}

func runTicker(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	symbol := args[0]
	skipProducts, _ := cmd.Flags().GetBool("no-products")

	resolver := newResolver()

	company, ok := resolver.CompanyByTicker(ctx, symbol)
	if !ok {
		return eris.Errorf("ticker: no company found for %q", symbol)
	}
	fmt.Printf("%s -> %s (%s)\n", symbol, company.Label, company.QID)

	if skipProducts {
		return nil
	}

	products, err := resolver.Products(ctx, company.QID)
	if err != nil {
		return eris.Wrapf(err, "ticker: list products of %s", company.QID)
	}
	if len(products) == 0 {
		fmt.Println("No products linked.")
		return nil
	}
	for _, p := range products {
		fmt.Printf("  %s (%s)\n", p.Label, p.QID)
	}

	return nil
}
