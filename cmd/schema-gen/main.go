// Schema Generator
//
// Generates JSON Schema files from the pricing engine's Go API types.
// Go is the source of truth for the shared request/response contract.
//
// Usage:
//
//	go run cmd/schema-gen/main.go
//
// Output:
//
//	schemas/pricing.json
package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/invopop/jsonschema"

	"github.com/partstream/pricing-engine/internal/handlers"
	"github.com/partstream/pricing-engine/internal/pricing"
)

func main() {
	outputDir := "schemas"
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create output directory: %v\n", err)
		os.Exit(1)
	}

	types := []any{
		handlers.QuoteRequest{},
		pricing.Response{},
		pricing.Facts{},
		pricing.BulkDiscount{},
		pricing.QualityScore{},
		pricing.Analytics{},
		pricing.Recommendations{},
		pricing.StatsSnapshot{},
		pricing.HealthStatus{},
	}

	reflector := &jsonschema.Reflector{
		ExpandedStruct: false,
		DoNotReference: false,
	}

	combined := map[string]*jsonschema.Schema{}
	for _, t := range types {
		schema := reflector.Reflect(t)
		name := fmt.Sprintf("%T", t)
		combined[name] = schema
	}

	data, err := json.MarshalIndent(combined, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to marshal schemas: %v\n", err)
		os.Exit(1)
	}

	outPath := filepath.Join(outputDir, "pricing.json")
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to write %s: %v\n", outPath, err)
		os.Exit(1)
	}

	fmt.Printf("Wrote %s (%d types)\n", outPath, len(types))
}
