// Package pricing implements the pricing computation engine: deriving
// totals, tax, margins, discounts, conversions and quality scores from
// raw part price records, and serving repeated requests from TTL caches.
package pricing

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"
)

// PriceTier selects the cache lifetime for a computed quote. It has no
// effect on the computed amounts themselves.
type PriceTier string

const (
	TierStandard    PriceTier = "standard"
	TierPremium     PriceTier = "premium"
	TierBulk        PriceTier = "bulk"
	TierPromotional PriceTier = "promotional"
	TierContract    PriceTier = "contract"
)

// Valid reports whether t is one of the recognized tiers.
func (t PriceTier) Valid() bool {
	switch t {
	case TierStandard, TierPremium, TierBulk, TierPromotional, TierContract:
		return true
	}
	return false
}

// Currency is a supported quote currency. EUR is the base currency of
// all raw price records.
type Currency string

const (
	CurrencyEUR Currency = "EUR"
	CurrencyUSD Currency = "USD"
	CurrencyGBP Currency = "GBP"
)

// Valid reports whether c is one of the supported currencies.
func (c Currency) Valid() bool {
	switch c {
	case CurrencyEUR, CurrencyUSD, CurrencyGBP:
		return true
	}
	return false
}

// maxCandidateRecords caps the eligible record list per part.
const maxCandidateRecords = 10

// Request describes a single pricing lookup.
type Request struct {
	PartID              int64     `json:"partId"`
	Quantity            int       `json:"quantity"`
	Tier                PriceTier `json:"priceTier"`
	Currency            Currency  `json:"currency"`
	IncludeAnalytics    bool      `json:"includeAnalytics"`
	IncludeTaxBreakdown bool      `json:"includeTaxBreakdown"`
	IncludeDiscounts    bool      `json:"includeDiscounts"`
}

// Normalize fills the documented defaults for omitted fields: quantity 1,
// standard tier, EUR.
func (r *Request) Normalize() {
	if r.Quantity == 0 {
		r.Quantity = 1
	}
	if r.Tier == "" {
		r.Tier = TierStandard
	}
	if r.Currency == "" {
		r.Currency = CurrencyEUR
	}
}

// Validate checks the request after Normalize. Anything malformed is
// rejected before any record lookup happens.
func (r *Request) Validate() error {
	if r.PartID <= 0 {
		return &ErrInvalidRequest{Field: "partId", Reason: "must be positive"}
	}
	if r.Quantity < 1 {
		return &ErrInvalidRequest{Field: "quantity", Reason: "must be at least 1"}
	}
	if !r.Tier.Valid() {
		return &ErrInvalidRequest{Field: "priceTier", Reason: fmt.Sprintf("unknown tier %q", r.Tier)}
	}
	if !r.Currency.Valid() {
		return &ErrInvalidRequest{Field: "currency", Reason: fmt.Sprintf("unsupported currency %q", r.Currency)}
	}
	return nil
}

// Fingerprint returns the deterministic cache key for the request.
// Field order and separator are fixed so identical parameters always
// collide and differing parameters never do.
func (r *Request) Fingerprint() string {
	return strconv.FormatInt(r.PartID, 10) + ":" +
		strconv.Itoa(r.Quantity) + ":" +
		string(r.Tier) + ":" +
		string(r.Currency)
}

// RawPriceRecord is one candidate price row for a part as delivered by
// the record source. Monetary amounts are gross/net EUR unit prices.
type RawPriceRecord struct {
	PartID           int64     `json:"partId"`
	SaleGross        float64   `json:"saleUnitPriceGross"`
	SaleNet          float64   `json:"saleUnitPriceNet"`
	DepositGross     float64   `json:"depositUnitPriceGross"`
	DepositNet       float64   `json:"depositUnitPriceNet"`
	TaxRatePercent   float64   `json:"taxRatePercent"`
	MarginAbsolute   float64   `json:"marginAbsolute"`
	SaleQuantityUnit string    `json:"saleQuantityUnit"`
	Available        bool      `json:"available"`
	PriceKind        int       `json:"priceKind"`
	ValidFrom        time.Time `json:"validFrom"`
	ValidTo          time.Time `json:"validTo"`
}

// QuantityUnit parses the sale quantity multiplier, defaulting to 1 when
// the raw field is absent, non-numeric or non-positive.
func (r *RawPriceRecord) QuantityUnit() float64 {
	if r.SaleQuantityUnit == "" {
		return 1
	}
	unit, err := strconv.ParseFloat(r.SaleQuantityUnit, 64)
	if err != nil || unit <= 0 {
		return 1
	}
	return unit
}

// Eligible reports whether the record may be priced at all: it must be
// available and carry a strictly positive gross sale price.
func (r *RawPriceRecord) Eligible() bool {
	return r.Available && r.SaleGross > 0
}

// EligibleRecords filters, orders and caps a candidate list so every
// record source honors the same contract: available records with a
// positive gross price, most specific price kind first, at most ten.
func EligibleRecords(records []RawPriceRecord) []RawPriceRecord {
	out := make([]RawPriceRecord, 0, len(records))
	for _, r := range records {
		if r.Eligible() {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].PriceKind > out[j].PriceKind
	})
	if len(out) > maxCandidateRecords {
		out = out[:maxCandidateRecords]
	}
	return out
}

// BulkDiscount is one quantity threshold with the savings it yields for
// the current quote. Inactive thresholds carry zero savings but are
// still listed.
type BulkDiscount struct {
	MinQuantity int     `json:"minQty"`
	Rate        float64 `json:"rate"`
	Savings     float64 `json:"savings"`
}

// Conversion holds the currency amounts for a quote along with the
// exchange rate that was applied.
type Conversion struct {
	Amounts map[Currency]float64 `json:"amounts"`
	Rate    float64              `json:"exchangeRate"`
	Base    Currency             `json:"baseCurrency"`
	Target  Currency             `json:"targetCurrency"`
}

// QualityScore ranks the chosen price among all eligible candidates for
// the same part.
type QualityScore struct {
	Score          int    `json:"score"`
	Tier           string `json:"tier"`
	Rank           int    `json:"rank"`
	CandidateCount int    `json:"candidateCount"`
}

// Facts is the full set of derived pricing values for one request.
// Immutable once computed.
type Facts struct {
	GrossTotal        float64        `json:"grossTotal"`
	NetTotal          float64        `json:"netTotal"`
	DepositGrossTotal float64        `json:"depositGrossTotal"`
	DepositNetTotal   float64        `json:"depositNetTotal"`
	UnitGross         float64        `json:"unitGross"`
	UnitNet           float64        `json:"unitNet"`
	VATAmount         float64        `json:"vatAmount"`
	VATRate           float64        `json:"vatRate"`
	MarginUnit        float64        `json:"marginUnit"`
	MarginTotal       float64        `json:"marginTotal"`
	MarginPercent     int            `json:"marginPercent"`
	BulkDiscounts     []BulkDiscount `json:"bulkDiscounts,omitempty"`
	Conversion        Conversion     `json:"currencyConversion"`
	Quality           QualityScore   `json:"qualityScore"`
}

// TaxBreakdown itemizes the tax side of a quote, returned on request.
type TaxBreakdown struct {
	NetAmount   float64 `json:"netAmount"`
	TaxRate     float64 `json:"taxRate"`
	TaxAmount   float64 `json:"taxAmount"`
	GrossAmount float64 `json:"grossAmount"`
}

// Analytics compares the chosen price against the full candidate set.
// All values are deterministic derivations of the eligible records.
type Analytics struct {
	CandidateCount int     `json:"candidateCount"`
	LowestGross    float64 `json:"lowestGross"`
	HighestGross   float64 `json:"highestGross"`
	AverageGross   float64 `json:"averageGross"`
	SpreadPercent  float64 `json:"spreadPercent"`
	PricePosition  string  `json:"pricePosition"`
}

// Meta carries per-request response metadata.
type Meta struct {
	CacheHit       bool  `json:"cacheHit"`
	ResponseTimeMs int64 `json:"responseTimeMs"`
}

// Recommendations mirrors the advisory bundle shape on the wire.
type Recommendations struct {
	OptimalQuantity       int      `json:"optimalQuantity"`
	Trend                 string   `json:"trend"`
	DiscountOpportunities []string `json:"discountOpportunities"`
	Alternatives          []string `json:"alternatives"`
	StockAdvice           string   `json:"stockAdvice"`
	ConfidenceScore       int      `json:"confidenceScore"`
}

// Response is the uniform result of GetPricing. Failures set Success to
// false and Error; callers never see a raw fault.
type Response struct {
	Success         bool             `json:"success"`
	Facts           *Facts           `json:"pricing,omitempty"`
	TaxBreakdown    *TaxBreakdown    `json:"taxBreakdown,omitempty"`
	Analytics       *Analytics       `json:"analytics,omitempty"`
	Recommendations *Recommendations `json:"recommendations,omitempty"`
	Error           string           `json:"errorMessage,omitempty"`
	Meta            Meta             `json:"metadata"`
}

// StatsSnapshot is a point-in-time copy of the service counters.
type StatsSnapshot struct {
	TotalRequests            int64 `json:"totalRequests"`
	CacheHits                int64 `json:"cacheHits"`
	TotalComputeTimeMs       int64 `json:"totalComputeTimeMs"`
	ErrorCount               int64 `json:"errorCount"`
	RecommendationsGenerated int64 `json:"recommendationsGenerated"`
}

// HealthStatus reports the outcome of the lightweight self-test.
type HealthStatus struct {
	Status          string            `json:"status"`
	CacheEntryCount int               `json:"cacheEntryCount"`
	Checks          map[string]string `json:"checks"`
}

// ErrInvalidRequest is returned when a pricing request is malformed.
type ErrInvalidRequest struct {
	Field  string
	Reason string
}

func (e *ErrInvalidRequest) Error() string {
	return e.Field + ": " + e.Reason
}

// ErrNoPriceAvailable indicates the record source returned zero eligible
// records for the part. It is a domain failure, not a transport one.
var ErrNoPriceAvailable = errors.New("no eligible price record available")
