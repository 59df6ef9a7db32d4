package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/partstream/pricing-engine/internal/pricing"
	"github.com/partstream/pricing-engine/internal/source"
)

var (
	quotePart      int64
	quoteQuantity  int
	quoteTier      string
	quoteCurrency  string
	quoteAnalytics bool
	quoteOutput    string
	quoteFixture   string
)

// quoteCmd represents the quote command
var quoteCmd = &cobra.Command{
	Use:   "quote",
	Short: "Compute a price quote for a part",
	Long: `Compute a price quote for a part, either against a running pricing
engine server or offline against a JSON fixture file of raw price records.`,
	Example: `  pricing-engine quote --part 500 --quantity 10 --tier bulk
  pricing-engine quote --part 500 --currency USD --fixture ./testdata/prices.json`,
	RunE: runQuote,
}

func init() {
	rootCmd.AddCommand(quoteCmd)

	quoteCmd.Flags().Int64Var(&quotePart, "part", 0, "Part ID (required)")
	quoteCmd.Flags().IntVar(&quoteQuantity, "quantity", 1, "Requested quantity")
	quoteCmd.Flags().StringVar(&quoteTier, "tier", "standard", "Price tier: standard, premium, bulk, promotional, contract")
	quoteCmd.Flags().StringVar(&quoteCurrency, "currency", "EUR", "Quote currency: EUR, USD, GBP")
	quoteCmd.Flags().BoolVar(&quoteAnalytics, "analytics", false, "Include market analytics")
	quoteCmd.Flags().StringVar(&quoteOutput, "output", "table", "Output format: table or json")
	quoteCmd.Flags().StringVar(&quoteFixture, "fixture", "", "Offline mode: JSON fixture file of raw price records")
	quoteCmd.MarkFlagRequired("part")
}

func runQuote(cmd *cobra.Command, args []string) error {
	resp, err := fetchQuote(cmd.Context(), pricing.Request{
		PartID:              quotePart,
		Quantity:            quoteQuantity,
		Tier:                pricing.PriceTier(quoteTier),
		Currency:            pricing.Currency(quoteCurrency),
		IncludeAnalytics:    quoteAnalytics,
		IncludeTaxBreakdown: true,
		IncludeDiscounts:    true,
	})
	if err != nil {
		return err
	}

	if quoteOutput == "json" {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}
	return printQuote(resp)
}

// fetchQuote resolves the quote either locally from a fixture file or
// through the server API.
func fetchQuote(ctx context.Context, req pricing.Request) (*pricing.Response, error) {
	if quoteFixture != "" {
		records, err := source.LoadFile(quoteFixture)
		if err != nil {
			return nil, err
		}
		converter := pricing.NewRateTable(pricing.CurrencyEUR, nil)
		service := pricing.NewService(records, converter, nil)
		return service.GetPricing(ctx, req), nil
	}

	var resp pricing.Response
	if err := newAPIClient().PostJSON(ctx, serverURL+"/internal/pricing/quote", req, &resp); err != nil {
		return nil, fmt.Errorf("quote request failed: %w", err)
	}
	return &resp, nil
}

func printQuote(resp *pricing.Response) error {
	if !resp.Success {
		return fmt.Errorf("quote failed: %s", resp.Error)
	}

	p := message.NewPrinter(language.English)
	f := resp.Facts
	target := f.Conversion.Target

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Gross total\t%s\n", formatAmount(p, f.Conversion.Amounts[target], target))
	fmt.Fprintf(w, "Net total\t%s\n", formatAmount(p, f.NetTotal, f.Conversion.Base))
	fmt.Fprintf(w, "VAT (%.1f%%)\t%s\n", f.VATRate, formatAmount(p, f.VATAmount, f.Conversion.Base))
	fmt.Fprintf(w, "Margin\t%d%%\n", f.MarginPercent)
	fmt.Fprintf(w, "Quality\t%s (%d/100, rank %d of %d)\n", f.Quality.Tier, f.Quality.Score, f.Quality.Rank+1, f.Quality.CandidateCount)
	for _, d := range f.BulkDiscounts {
		if d.Savings > 0 {
			fmt.Fprintf(w, "Discount %d+\t-%s\n", d.MinQuantity, formatAmount(p, d.Savings, f.Conversion.Base))
		}
	}
	if resp.Analytics != nil {
		a := resp.Analytics
		fmt.Fprintf(w, "Market position\t%s of %d candidates\n", a.PricePosition, a.CandidateCount)
	}
	if resp.Recommendations != nil {
		fmt.Fprintf(w, "Optimal quantity\t%d\n", resp.Recommendations.OptimalQuantity)
	}
	fmt.Fprintf(w, "Cache hit\t%v\n", resp.Meta.CacheHit)
	return w.Flush()
}

// formatAmount renders a monetary amount with thousands separators.
func formatAmount(p *message.Printer, amount float64, currency pricing.Currency) string {
	return p.Sprintf("%.2f %s", amount, string(currency))
}
