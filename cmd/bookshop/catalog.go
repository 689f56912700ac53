package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mkrupp/bookshop/internal/domain"
	"github.com/mkrupp/bookshop/internal/repo/book"
)

// NewCatalogCmd creates the catalog subcommand.
func NewCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "Print the configured catalog as JSON",
		Long: `Load the catalog the service would start with (the embedded one, or the
file named by BOOKSHOP_CATALOG_FILE) and print it as JSON.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd.Context(), "catalog")
			if err != nil {
				return err
			}

			books, err := book.LoadCatalog(cfg.Books)
			if err != nil {
				return fmt.Errorf("load catalog: %w", err)
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")

			if err := enc.Encode(domain.BooksResponse{Books: books}); err != nil {
				return fmt.Errorf("encode catalog: %w", err)
			}

			return nil
		},
	}
}
