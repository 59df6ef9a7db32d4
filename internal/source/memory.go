package source

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sync"

	"github.com/partstream/pricing-engine/internal/pricing"
)

// Memory is an in-process record source backed by a fixture map. Used
// by the CLI's offline mode and by tests.
type Memory struct {
	mu      sync.RWMutex
	records map[int64][]pricing.RawPriceRecord
}

// NewMemory creates an empty in-memory source.
func NewMemory() *Memory {
	return &Memory{records: make(map[int64][]pricing.RawPriceRecord)}
}

// Add registers raw records for a part. Eligibility filtering happens
// at query time, so ineligible fixtures may be added deliberately.
func (m *Memory) Add(partID int64, records ...pricing.RawPriceRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records[partID] = append(m.records[partID], records...)
}

// FindEligiblePrices applies the shared eligibility contract to the
// fixture records for the part.
func (m *Memory) FindEligiblePrices(_ context.Context, partID int64) ([]pricing.RawPriceRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return pricing.EligibleRecords(m.records[partID]), nil
}

// LoadFile reads a JSON fixture file of raw price records and returns a
// memory source over them. The file is a flat array; records group by
// their partId.
func LoadFile(path string) (*Memory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading fixture file: %w", err)
	}

	var records []pricing.RawPriceRecord
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("parsing fixture file %s: %w", path, err)
	}

	m := NewMemory()
	for _, r := range records {
		m.Add(r.PartID, r)
	}
	return m, nil
}
