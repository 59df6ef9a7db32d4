// Package config loads the pricing engine configuration from file,
// .env and environment variables.
package config

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"

	"github.com/partstream/pricing-engine/internal/pricing"
)

// Config holds the application configuration.
type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Pricing   PricingConfig   `mapstructure:"pricing"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         int           `mapstructure:"port"`
	Host         string        `mapstructure:"host"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database connection configuration.
type DatabaseConfig struct {
	URL             string        `mapstructure:"url"`
	MaxConnections  int           `mapstructure:"max_connections"`
	MinConnections  int           `mapstructure:"min_connections"`
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"`
	MaxConnIdleTime time.Duration `mapstructure:"max_conn_idle_time"`
}

// PricingConfig holds cache lifetimes and conversion rates. The TTL
// defaults follow the per-tier lifetime table of the pricing engine.
type PricingConfig struct {
	StandardTTL     time.Duration      `mapstructure:"standard_ttl"`
	PremiumTTL      time.Duration      `mapstructure:"premium_ttl"`
	BulkTTL         time.Duration      `mapstructure:"bulk_ttl"`
	PromotionalTTL  time.Duration      `mapstructure:"promotional_ttl"`
	ContractTTL     time.Duration      `mapstructure:"contract_ttl"`
	AnalyticsTTL    time.Duration      `mapstructure:"analytics_ttl"`
	ProbePartID     int64              `mapstructure:"probe_part_id"`
	ExchangeRates   map[string]float64 `mapstructure:"exchange_rates"`
}

// RateLimitConfig holds API rate limiting configuration.
type RateLimitConfig struct {
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Level   string `mapstructure:"level"`
	Format  string `mapstructure:"format"`
	NoColor bool   `mapstructure:"no_color"`
}

// ServiceConfig converts the pricing section into the engine's config.
func (p PricingConfig) ServiceConfig() *pricing.ServiceConfig {
	cfg := pricing.DefaultServiceConfig()
	cfg.TierTTL = map[pricing.PriceTier]time.Duration{
		pricing.TierStandard:    p.StandardTTL,
		pricing.TierPremium:     p.PremiumTTL,
		pricing.TierBulk:        p.BulkTTL,
		pricing.TierPromotional: p.PromotionalTTL,
		pricing.TierContract:    p.ContractTTL,
	}
	cfg.AnalyticsTTL = p.AnalyticsTTL
	if p.ProbePartID > 0 {
		cfg.ProbePartID = p.ProbePartID
	}
	return cfg
}

// Rates converts the configured exchange rates to the converter's map.
func (p PricingConfig) Rates() map[pricing.Currency]float64 {
	if len(p.ExchangeRates) == 0 {
		return pricing.DefaultRates()
	}
	out := make(map[pricing.Currency]float64, len(p.ExchangeRates))
	for k, v := range p.ExchangeRates {
		out[pricing.Currency(strings.ToUpper(k))] = v
	}
	return out
}

// Load reads the configuration from file, .env, and environment
// variables.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./config")
		v.AddConfigPath(".")
	}

	if err := loadEnvFile(); err != nil {
		// .env is optional.
		log.Debug().Err(err).Msg(".env file not loaded")
	}

	v.AutomaticEnv()
	v.SetEnvPrefix("PRICING_ENGINE")
	bindEnvVars(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)

	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.max_conn_lifetime", time.Hour)
	v.SetDefault("database.max_conn_idle_time", 30*time.Minute)

	v.SetDefault("pricing.standard_ttl", 5*time.Minute)
	v.SetDefault("pricing.premium_ttl", 15*time.Minute)
	v.SetDefault("pricing.bulk_ttl", 30*time.Minute)
	v.SetDefault("pricing.promotional_ttl", 2*time.Minute)
	v.SetDefault("pricing.contract_ttl", 2*time.Hour)
	v.SetDefault("pricing.analytics_ttl", 10*time.Minute)
	v.SetDefault("pricing.probe_part_id", 1)

	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst_size", 100)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
	v.SetDefault("logging.no_color", false)
}

// loadEnvFile parses KEY=VALUE lines from a .env file into the process
// environment.
func loadEnvFile() error {
	for _, path := range []string{".", "./config"} {
		envFile := path + "/.env"
		if _, err := os.Stat(envFile); err == nil {
			return loadDotEnvFile(envFile)
		}
	}
	return fmt.Errorf("no .env file found")
}

func loadDotEnvFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.Trim(strings.TrimSpace(parts[1]), "\"'")
			os.Setenv(key, value)
		}
	}
	return scanner.Err()
}

func bindEnvVars(v *viper.Viper) {
	v.BindEnv("database.url", "DATABASE_URL")
	v.BindEnv("server.port", "PORT")
	v.BindEnv("server.host", "HOST")
	v.BindEnv("logging.level", "LOG_LEVEL")
}

// GetDatabaseURL returns the database URL from the environment.
func GetDatabaseURL() string {
	return os.Getenv("DATABASE_URL")
}
