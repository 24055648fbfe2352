package main

import (
	"context"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/skyfare/internal/app"
	"github.com/example/skyfare/internal/config"
	"github.com/spf13/cobra"
)

func main() {
	var configPath string
	cmd := &cobra.Command{
		Use:           "skyfare-server",
		Short:         "Flight search proxy in front of the Travelpayouts API",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(configPath)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", os.Getenv("SKYFARE_CONFIG"), "path to config.yaml (overrides SKYFARE_CONFIG)")

	if err := cmd.Execute(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	ctx, rootCancel := context.WithCancel(context.Background())
	defer rootCancel()

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}

	//Create AppConfig will all initialization
	appConfig, err := app.SetAppConfig(cfg, os.Stdout)
	if err != nil {
		return err
	}
	logger := appConfig.Logger

	srv := &http.Server{
		Addr:              cfg.Server.Address,
		Handler:           appConfig.Router,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext: func(l net.Listener) context.Context {
			return ctx
		},
	}

	// graceful shutdown
	idleConnsClosed := make(chan struct{})
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("initiating graceful shutdown", "signal", sig.String())

		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("graceful shutdown error", "error", err)
		}
		// Cancel root context so in-flight upstream calls stop
		rootCancel()
		close(idleConnsClosed)
	}()

	logger.Info("starting server", "addr", cfg.Server.Address)
	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	<-idleConnsClosed
	logger.Info("server stopped")
	return nil
}
