package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/partstream/pricing-engine/internal/pricing"
)

func TestLoadDefaults(t *testing.T) {
	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)
	assert.Equal(t, 5*time.Minute, cfg.Pricing.StandardTTL)
	assert.Equal(t, 15*time.Minute, cfg.Pricing.PremiumTTL)
	assert.Equal(t, 30*time.Minute, cfg.Pricing.BulkTTL)
	assert.Equal(t, 2*time.Minute, cfg.Pricing.PromotionalTTL)
	assert.Equal(t, 2*time.Hour, cfg.Pricing.ContractTTL)
	assert.Equal(t, 50.0, cfg.RateLimit.RequestsPerSecond)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  port: 9090
pricing:
  standard_ttl: 1m
  exchange_rates:
    usd: 1.10
    gbp: 0.90
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, time.Minute, cfg.Pricing.StandardTTL)
	assert.Equal(t, 15*time.Minute, cfg.Pricing.PremiumTTL, "unset values keep defaults")

	rates := cfg.Pricing.Rates()
	assert.Equal(t, 1.10, rates[pricing.CurrencyUSD], "rate keys are upper-cased")
	assert.Equal(t, 0.90, rates[pricing.CurrencyGBP])
}

func TestPricingConfigServiceConfig(t *testing.T) {
	p := PricingConfig{
		StandardTTL:    time.Minute,
		PremiumTTL:     2 * time.Minute,
		BulkTTL:        3 * time.Minute,
		PromotionalTTL: 30 * time.Second,
		ContractTTL:    time.Hour,
		AnalyticsTTL:   5 * time.Minute,
		ProbePartID:    42,
	}

	cfg := p.ServiceConfig()
	assert.Equal(t, time.Minute, cfg.TierTTL[pricing.TierStandard])
	assert.Equal(t, time.Hour, cfg.TierTTL[pricing.TierContract])
	assert.Equal(t, 5*time.Minute, cfg.AnalyticsTTL)
	assert.Equal(t, int64(42), cfg.ProbePartID)
}

func TestRatesDefaultWhenEmpty(t *testing.T) {
	p := PricingConfig{}
	assert.Equal(t, pricing.DefaultRates(), p.Rates())
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("LOG_LEVEL", "debug")

	wd, _ := os.Getwd()
	defer os.Chdir(wd)
	require.NoError(t, os.Chdir(t.TempDir()))

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "debug", cfg.Logging.Level)
}
