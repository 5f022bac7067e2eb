package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"pdfchat/internal/api"
	"pdfchat/internal/config"
	"pdfchat/internal/uploads"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := newApp(ctx)
	if err != nil {
		return err
	}
	defer app.Close()

	if sweeper, ok := app.store.(uploads.Sweeper); ok {
		basic := app.cfg.BasicConfig
		uploads.StartCleaner(ctx, sweeper,
			time.Duration(basic.CleanIntervalMinutes)*time.Minute,
			time.Duration(basic.UploadTTLMinutes)*time.Minute,
			app.logger)
	}

	handler := api.NewHandler(app.assistant, app.store, app.logger)
	addr := app.cfg.BasicConfig.ServerAddress
	if addr == "" {
		addr = config.DefaultServerAddress
	}
	srv := &http.Server{
		Addr:              addr,
		Handler:           api.NewRouter(handler, app.logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		app.logger.Info().Str("addr", addr).Str("upload_backend", app.cfg.BasicConfig.UploadBackend).Msg("server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server stopped: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	app.logger.Info().Msg("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
