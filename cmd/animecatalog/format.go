package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/animecatalog/internal/app"
)

var formatCmd = &cobra.Command{
	Use:   "format",
	Short: "Format the catalog JSON document",
	Long: `Format loads the catalog document and rewrites it with the same
indentation the server uses when it saves a new anime.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.FormatCatalog(cmd.Context()); err != nil {
			return fmt.Errorf("format failed: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(formatCmd)
}
