package main

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
	"github.com/xuri/excelize/v2"

	"github.com/partstream/pricing-engine/internal/pricing"
)

var (
	exportParts    []int64
	exportQuantity int
	exportTier     string
	exportCurrency string
	exportFile     string
	exportFixture  string
)

// exportCmd represents the export command
var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export quotes for a list of parts to an xlsx report",
	Example: `  pricing-engine export --parts 500,501,502 --quantity 10 --out report.xlsx
  pricing-engine export --parts 500 --fixture ./testdata/prices.json --out report.xlsx`,
	RunE: runExport,
}

func init() {
	rootCmd.AddCommand(exportCmd)

	exportCmd.Flags().Int64SliceVar(&exportParts, "parts", nil, "Part IDs to quote (required)")
	exportCmd.Flags().IntVar(&exportQuantity, "quantity", 1, "Quantity per part")
	exportCmd.Flags().StringVar(&exportTier, "tier", "standard", "Price tier")
	exportCmd.Flags().StringVar(&exportCurrency, "currency", "EUR", "Quote currency")
	exportCmd.Flags().StringVar(&exportFile, "out", "quotes.xlsx", "Output xlsx file")
	exportCmd.Flags().StringVar(&exportFixture, "fixture", "", "Offline mode: JSON fixture file of raw price records")
	exportCmd.MarkFlagRequired("parts")
}

var exportHeader = []string{
	"Part ID", "Quantity", "Tier", "Currency",
	"Gross Total", "Net Total", "VAT", "Margin %", "Quality", "Error",
}

func runExport(cmd *cobra.Command, args []string) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for col, h := range exportHeader {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, partID := range exportParts {
		resp, err := exportQuote(cmd.Context(), partID)
		if err != nil {
			return err
		}
		if err := writeQuoteRow(f, sheet, i+2, partID, resp); err != nil {
			return err
		}
	}

	if err := f.SaveAs(exportFile); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	logger.Info().Str("file", exportFile).Int("parts", len(exportParts)).Msg("Report written")
	return nil
}

func exportQuote(ctx context.Context, partID int64) (*pricing.Response, error) {
	// Reuse the quote command's resolution path, fixture or server.
	quoteFixture = exportFixture
	return fetchQuote(ctx, pricing.Request{
		PartID:           partID,
		Quantity:         exportQuantity,
		Tier:             pricing.PriceTier(exportTier),
		Currency:         pricing.Currency(exportCurrency),
		IncludeDiscounts: true,
	})
}

func writeQuoteRow(f *excelize.File, sheet string, row int, partID int64, resp *pricing.Response) error {
	values := []any{partID, exportQuantity, exportTier, exportCurrency}
	if resp.Success {
		facts := resp.Facts
		target := facts.Conversion.Target
		values = append(values,
			facts.Conversion.Amounts[target],
			facts.NetTotal,
			facts.VATAmount,
			facts.MarginPercent,
			facts.Quality.Tier,
			"",
		)
	} else {
		values = append(values, nil, nil, nil, nil, nil, resp.Error)
	}

	for col, v := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return err
		}
		if v == nil {
			continue
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("writing row for part %s: %w", strconv.FormatInt(partID, 10), err)
		}
	}
	return nil
}
