package main

import (
	"github.com/spf13/cobra"
)

const appName = "bookshop"

// NewRootCmd creates the root command of the bookshop CLI.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   appName,
		Short: "Book catalog with per-user reviews",
		Long: `bookshop serves a read-only book catalog over HTTP and lets registered
users add one review per book, authenticated with bearer tokens.

Configuration is read from BOOKSHOP_* environment variables.`,
		SilenceUsage: true,
	}

	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewCatalogCmd())

	return cmd
}
