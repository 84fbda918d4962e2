package main

import (
	"context"
	"fmt"

	"github.com/alchemorsel/recipebook/internal/infrastructure/container"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the catalog as a JSON API",
		Long: `Serve the catalog over HTTP under /api/v1, with /health and Prometheus metrics.

With --watch the catalog is reloaded whenever the file changes on disk.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.serve(cmd.Context())
		},
	}

	cmd.Flags().String("host", "", "listen host")
	cmd.Flags().Int("port", 0, "listen port")
	cmd.Flags().Bool("watch", false, "reload the catalog when the file changes")
	return cmd
}

func (a *app) serve(ctx context.Context) error {
	fxApp := container.New(a.cfg, a.logger)

	if err := fxApp.Start(ctx); err != nil {
		return fmt.Errorf("failed to start server: %w", err)
	}

	var exitCode int
	select {
	case <-ctx.Done():
	case sig := <-fxApp.Wait():
		exitCode = sig.ExitCode
	}

	a.logger.Info("Shutting down gracefully")

	stopCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := fxApp.Stop(stopCtx); err != nil {
		a.logger.Error("Failed to stop application gracefully", zap.Error(err))
		return err
	}

	if exitCode != 0 {
		return fmt.Errorf("server exited with code %d", exitCode)
	}
	return nil
}
