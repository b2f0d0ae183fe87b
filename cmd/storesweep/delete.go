package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/seedhaus/storesweep/pkg/config"
	"github.com/seedhaus/storesweep/pkg/logging"
	"github.com/seedhaus/storesweep/pkg/purge"
	"github.com/seedhaus/storesweep/pkg/shopify"
	"github.com/seedhaus/storesweep/pkg/strapi"
)

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <orders|customers>",
		Short: "Delete every record of a resource from both backend systems",
		Long: `Delete walks the paginated listing of the content API and removes
every record from both backend systems: the commerce platform first
(when the record is linked there), then the content API. Deletes are
single-attempt; failed pages are reported and skipped.`,
		Args: cobra.ExactArgs(1),
		RunE: runDelete,
	}
}

func runDelete(cmd *cobra.Command, args []string) error {
	resource := args[0]
	switch resource {
	case "orders", "customers":
	default:
		return fmt.Errorf("unknown resource %q (expected orders or customers)", resource)
	}

	config.LoadEnvFile()

	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("configuration: %w", err)
	}

	setupLogging(cfg.LogLevel, cfg.LogPretty)
	logger := logging.NewLogger("storesweep")

	if resource == "customers" {
		logger.Info().Msg("Customer deletion is not implemented yet")
		return nil
	}

	strapiClient, err := strapi.New(strapi.Config{
		BaseURL:  cfg.Strapi.BaseURL,
		Token:    cfg.Strapi.Token,
		PageSize: cfg.PageSize,
	})
	if err != nil {
		return fmt.Errorf("strapi client: %w", err)
	}

	shopifyClient, err := shopify.New(shopify.Config{
		BaseURL:     cfg.Shopify.BaseURL,
		AccessToken: cfg.Shopify.AccessToken,
	})
	if err != nil {
		return fmt.Errorf("shopify client: %w", err)
	}

	sweeper, err := purge.NewSweeper(strapiClient, strapiClient, shopifyClient, purge.Config{
		RecordDelay: cfg.RecordDelay,
	})
	if err != nil {
		return err
	}

	summary, err := sweeper.Run(cmd.Context())
	if err != nil {
		return fmt.Errorf("sweep aborted: %w", err)
	}

	logger.Info().
		Int("processed", summary.Processed).
		Int("total", summary.Total).
		Int("failed_pages", summary.FailedPages).
		Msg("Order sweep finished")

	return nil
}
