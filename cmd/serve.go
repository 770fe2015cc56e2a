package cmd

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/lmeyers/treatybot/api"
	"github.com/lmeyers/treatybot/internal/app"
	"github.com/lmeyers/treatybot/internal/config"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE: func(_ *cobra.Command, _ []string) error {
		return runServe()
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	rootCmd.AddCommand(serveCmd)
}

func runServe() error {
	if err := checkRequiredEnv(); err != nil {
		return err
	}

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	addr := serveAddr
	if addr == "" {
		addr = cfg.ListenAddr
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	logger := initLogger()
	logger.Info("starting HTTP API server", "version", AppVersion)

	a, err := app.Setup(ctx, cfg, logger)
	if err != nil {
		return fmt.Errorf("initializing application: %w", err)
	}
	defer func() {
		if closeErr := a.Close(); closeErr != nil {
			logger.Warn("shutdown error", "error", closeErr)
		}
	}()

	srv := api.NewServer(a.DBPool, a.Pipeline, a.Flow, a.Feedback, cfg.Temperature, logger)
	return srv.Run(ctx, addr)
}
