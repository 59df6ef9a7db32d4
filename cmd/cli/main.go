package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/partstream/pricing-engine/internal/httpclient"
)

var (
	serverURL string
	apiKey    string
	logger    zerolog.Logger
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "pricing-engine",
	Short: "Pricing Engine CLI - query part quotes and service state",
	Long: `A CLI for the pricing engine. Quotes part prices against a running
server (or offline against a fixture file), inspects service counters, and
exports bulk quote reports to xlsx.`,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = initLogger()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", "http://localhost:8080", "pricing engine base URL")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", os.Getenv("INTERNAL_API_KEY"), "internal API key")
}

func initLogger() zerolog.Logger {
	output := zerolog.ConsoleWriter{Out: os.Stderr}
	return zerolog.New(output).Level(zerolog.InfoLevel).With().Timestamp().Logger()
}

func newAPIClient() *httpclient.Client {
	return httpclient.New(httpclient.DefaultConfig(), apiKey)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
