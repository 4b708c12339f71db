package main

import (
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/gonsam85/assets/internal/config"
	"github.com/gonsam85/assets/internal/logger"
)

func main() {
	cfg := config.NewConfig()
	var jsonLogs bool
	var log zerolog.Logger

	rootCmd := &cobra.Command{
		Use:   "assets",
		Short: "Personal asset valuation engine",
		Long: `assets tracks cash, equities, crypto, real estate and loans, and derives
live net worth, daily change, ROI and allocation from market quotes.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if jsonLogs {
				log = logger.NewJSON(os.Stderr, cfg.Debug)
			} else {
				log = logger.New(os.Stderr, cfg.Debug)
			}
			return cfg.Validate()
		},
	}

	// Environment first, flags override
	config.LoadEnvironment(logger.New(os.Stderr, false))
	cfg.LoadFromEnvironment()

	flags := rootCmd.PersistentFlags()
	flags.BoolVar(&cfg.Debug, "debug", cfg.Debug, "Enable debug logging")
	flags.BoolVar(&jsonLogs, "json-logs", false, "Write logs as JSON")
	flags.StringVar(&cfg.StoreDriver, "store", cfg.StoreDriver, "Durable store: file or postgres")
	flags.StringVar(&cfg.DataDir, "data-dir", cfg.DataDir, "Directory of the file store")
	flags.StringVar(&cfg.DBConnStr, "db", cfg.DBConnStr, "PostgreSQL connection string")
	flags.StringVar(&cfg.StoreKey, "store-key", cfg.StoreKey, "Key the collection is stored under")
	flags.DurationVar(&cfg.QuoteTimeout, "quote-timeout", cfg.QuoteTimeout, "Timeout of one quote source call")

	logRef := func() zerolog.Logger { return log }

	rootCmd.AddCommand(newServeCmd(cfg, logRef))
	rootCmd.AddCommand(newQuoteCmd(cfg, logRef))
	rootCmd.AddCommand(newSnapshotCmd(cfg, logRef))
	rootCmd.AddCommand(newAddCmd(cfg, logRef))

	// Execute the root command
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
