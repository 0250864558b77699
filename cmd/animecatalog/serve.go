package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/varoOP/animecatalog/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the anime catalog over HTTP",
	Long: `Serve loads the catalog document and starts the REST API.
The process does not start when the document is missing or is not valid JSON.

Routes can be mounted below a prefix (--prefix /api) and the root can serve
a static landing page from a directory (--static-dir ./public).`,
	RunE: func(cmd *cobra.Command, args []string) error {
		application, err := app.NewApp()
		if err != nil {
			return fmt.Errorf("failed to initialize application: %w", err)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		server, err := application.Server(ctx)
		if err != nil {
			return err
		}

		errCh := make(chan error, 1)
		go func() {
			if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				errCh <- err
			}
			close(errCh)
		}()

		select {
		case err := <-errCh:
			return fmt.Errorf("server failed: %w", err)
		case <-ctx.Done():
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return application.Shutdown(shutdownCtx, server)
	},
}

func init() {
	serveCmd.Flags().Int("port", 3000, "port to listen on")
	serveCmd.Flags().String("prefix", "", "URL prefix for the catalog routes, e.g. /api")
	serveCmd.Flags().String("static-dir", "", "directory with a static landing page served at the root")

	viper.BindPFlag("port", serveCmd.Flags().Lookup("port"))
	viper.BindPFlag("prefix", serveCmd.Flags().Lookup("prefix"))
	viper.BindPFlag("static_dir", serveCmd.Flags().Lookup("static-dir"))

	rootCmd.AddCommand(serveCmd)
}
