package main

import (
	"os"

	zlog "github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/hemantajax/connectclo/internal/app"
)

var cfg app.Config

var rootCmd = &cobra.Command{
	Use:   "connectclo",
	Short: "Storefront catalog with search, facet filters and sorting",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		app.SetupLogging(cfg.LogLevel)
	},
	SilenceUsage: true,
}

func main() {
	cfg = app.LoadConfig()

	rootCmd.PersistentFlags().StringVar(&cfg.ProductsURL, "products-url", cfg.ProductsURL, "Products API endpoint (or set PRODUCTS_URL)")
	rootCmd.PersistentFlags().DurationVar(&cfg.CacheTTL, "cache-ttl", cfg.CacheTTL, "How long a fetched catalog is reused")

	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(browseCmd)

	if err := rootCmd.Execute(); err != nil {
		zlog.Error().Err(err).Msg("command failed")
		os.Exit(1)
	}
}
