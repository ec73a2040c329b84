// Command server runs the market price proxy.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"marketproxy/internal/config"
	"marketproxy/internal/logging"
)

// Build-time variables (set via -ldflags).
var (
	version = "dev"
	commit  = "unknown"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configFile string
		port       string
		logLevel   string
	)
	cmd := &cobra.Command{
		Use:           "marketproxy",
		Short:         "HTTP proxy for crypto and stock prices",
		Version:       fmt.Sprintf("%s (commit %s, built %s)", version, commit, date),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if configFile == "" {
				configFile = os.Getenv("CONFIG_FILE")
			}
			cfg, err := config.Load(configFile)
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return err
			}

			log, err := logging.New(cfg.Logging.Level, cfg.Logging.Format)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			log.Info("starting", zap.String("version", version), zap.String("addr", cfg.Server.Addr()))
			return serve(ctx, cfg, log)
		},
	}
	cmd.Flags().StringVar(&configFile, "config", "", "config file path (default: ./config.yaml, or $CONFIG_FILE)")
	cmd.Flags().StringVar(&port, "port", "", "listen port, overrides server.port")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	cmd.SetContext(context.Background())
	return cmd
}
