package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/varoOP/animecatalog/internal/app"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the catalog to another file",
	Long: `Export writes a copy of the catalog to --out.

Formats:
  - json: the same indented document the server writes (default)
  - yaml: a YAML list with the same keys`,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, _ := cmd.Flags().GetString("format")
		out, _ := cmd.Flags().GetString("out")

		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		if err := application.Export(cmd.Context(), app.ExportFormat(format), out); err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		return nil
	},
}

func init() {
	exportCmd.Flags().String("format", "json", "export format: 'json' or 'yaml'")
	exportCmd.Flags().String("out", "", "destination file")
	exportCmd.MarkFlagRequired("out")
	rootCmd.AddCommand(exportCmd)
}
