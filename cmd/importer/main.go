package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"storefront/internal/config"
	"storefront/internal/db"
	"storefront/internal/importer"
	"storefront/internal/logger"
	productrepo "storefront/internal/repository/product"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		filePath string
		currency string
	)
	cmd := &cobra.Command{
		Use:          "importer",
		Short:        "Import products from a CSV sheet into the catalog table",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			log := logger.New(logger.Options{ServiceName: "storefront-importer", Format: "console"})

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			if currency == "" {
				currency = cfg.Catalog.Currency
			}

			pool, err := db.Connect(ctx, cfg.DBConnString, log)
			if err != nil {
				return fmt.Errorf("connect db: %w", err)
			}
			defer pool.Close()

			f, err := os.Open(filePath)
			if err != nil {
				return fmt.Errorf("open file: %w", err)
			}
			defer f.Close()

			imp := importer.NewCSVImporter(f, productrepo.NewPostgres(pool, log), currency)

			start := time.Now()
			count, err := imp.Run(ctx)
			if err != nil {
				return fmt.Errorf("import failed after %d products: %w", count, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d products in %s\n", count, time.Since(start).Truncate(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().StringVarP(&filePath, "file", "f", "", "path to the product CSV (id,name,price,mrp,currency,category,...)")
	cmd.Flags().StringVar(&currency, "currency", "", "currency for rows without one (defaults to STOREFRONT_CATALOG_CURRENCY)")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
