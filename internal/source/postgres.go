// Package source provides PriceRecordSource adapters over the pricing
// engine's read-only record contract.
package source

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/partstream/pricing-engine/internal/pricing"
)

// Querier is the subset of pgxpool.Pool the adapter needs. Tests
// substitute a pgxmock pool.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}

// Postgres reads candidate price records from the part_prices table.
// Eligibility filtering, ordering and the candidate cap are pushed into
// the query so the adapter honors the source contract by construction.
type Postgres struct {
	db     Querier
	logger zerolog.Logger
}

// NewPostgres creates a postgres-backed record source.
func NewPostgres(db Querier) *Postgres {
	return &Postgres{
		db:     db,
		logger: log.With().Str("component", "record_source").Logger(),
	}
}

const findEligibleQuery = `
	SELECT part_id, sale_price_gross, sale_price_net,
	       deposit_price_gross, deposit_price_net,
	       tax_rate, margin, sale_quantity_unit,
	       available, price_kind, valid_from, valid_to
	FROM part_prices
	WHERE part_id = $1
	  AND available
	  AND sale_price_gross > 0
	ORDER BY price_kind DESC
	LIMIT 10`

// FindEligiblePrices returns the eligible records for a part, most
// specific price kind first, capped at ten.
func (p *Postgres) FindEligiblePrices(ctx context.Context, partID int64) ([]pricing.RawPriceRecord, error) {
	rows, err := p.db.Query(ctx, findEligibleQuery, partID)
	if err != nil {
		return nil, fmt.Errorf("querying part prices: %w", err)
	}
	defer rows.Close()

	var records []pricing.RawPriceRecord
	for rows.Next() {
		var (
			r            pricing.RawPriceRecord
			depositGross *float64
			depositNet   *float64
			margin       *float64
			quantityUnit *string
			validFrom    *time.Time
			validTo      *time.Time
		)
		if err := rows.Scan(
			&r.PartID, &r.SaleGross, &r.SaleNet,
			&depositGross, &depositNet,
			&r.TaxRatePercent, &margin, &quantityUnit,
			&r.Available, &r.PriceKind, &validFrom, &validTo,
		); err != nil {
			return nil, fmt.Errorf("scanning part price: %w", err)
		}

		if depositGross != nil {
			r.DepositGross = *depositGross
		}
		if depositNet != nil {
			r.DepositNet = *depositNet
		}
		if margin != nil {
			r.MarginAbsolute = *margin
		}
		if quantityUnit != nil {
			r.SaleQuantityUnit = *quantityUnit
		}
		if validFrom != nil {
			r.ValidFrom = *validFrom
		}
		if validTo != nil {
			r.ValidTo = *validTo
		}

		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating part prices: %w", err)
	}

	return records, nil
}
