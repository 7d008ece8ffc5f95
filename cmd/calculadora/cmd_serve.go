package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/Cordylus1/Calculadora-OpenProject/internal/server"
)

const shutdownTimeout = 15 * time.Second

var (
	servePort    int
	serveDev     bool
	serveDataDir string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		// flags override the config, but config.toml and PORT take precedence over --port
		if servePort > 0 && !cfgInfo.PortSpecified {
			cfg.Server.Port = servePort
		}
		if serveDev {
			cfg.Server.DevMode = true
		}
		if serveDataDir != "" {
			cfg.Data.DataDir = serveDataDir
		}

		source, err := newSource(cfg, log)
		if err != nil {
			return err
		}
		srv, err := server.NewServer(cfg, source, log)
		if err != nil {
			return err
		}

		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Run(addr)
		}()

		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		defer signal.Stop(quit)

		select {
		case err := <-errCh:
			_ = srv.Shutdown(context.Background())
			return err
		case <-quit:
		}

		log.Info().Msg("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return fmt.Errorf("server forced to shutdown: %w", err)
		}
		log.Info().Msg("server exited gracefully")
		return nil
	},
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "port (ignored when config.toml or PORT sets one)")
	serveCmd.Flags().BoolVar(&serveDev, "dev", false, "development mode")
	serveCmd.Flags().StringVar(&serveDataDir, "data-dir", "", "data directory (overrides config)")
}
