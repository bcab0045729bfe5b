package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"formulator/internal/config"
	"formulator/internal/fdc"
	"formulator/internal/log"
	"formulator/internal/store"
)

var (
	dbURL    string
	logLevel string

	cfg config.Config
)

var rootCmd = &cobra.Command{
	Use:   "formulator",
	Short: "formulator builds and costs food formulations from your terminal",
	Long: "formulator manages weighted ingredient formulations: lock-aware quantity\n" +
		"redistribution, per-100g nutrient totals derived from FoodData Central, and\n" +
		"multi-currency batch and per-unit costing.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		loaded, err := config.Load()
		if err != nil {
			return err
		}
		cfg = loaded
		if dbURL != "" {
			cfg.Database.URL = dbURL
		}
		if logLevel != "" {
			cfg.Logging.Level = logLevel
		}
		return log.SetLevel(cfg.Logging.Level)
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&dbURL, "db", "", "Database URL (postgres DSN or sqlite path)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level: debug, info or error")
}

// withStore opens the configured database, migrates it and runs fn.
func withStore(fn func(*store.Store) error) error {
	s, err := store.Configure(cfg.Database)
	if err != nil {
		return err
	}
	return fn(s)
}

func newFDCClient() *fdc.Client {
	return &fdc.Client{
		APIKey:  cfg.FDC.APIKey,
		BaseURL: cfg.FDC.BaseURL,
		Cache:   fdc.NewMemoryCache(cfg.FDC.CacheTTL, cfg.FDC.CacheSize),
	}
}
