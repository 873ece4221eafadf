package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/gravitrone/reqdesk/internal/config"
	"github.com/gravitrone/reqdesk/internal/devserver"
	"github.com/gravitrone/reqdesk/internal/logging"
)

// DevserverCmd returns the `reqdesk devserver` command.
func DevserverCmd() *cobra.Command {
	var (
		addr   string
		dbPath string
		apiKey string
		noSeed bool
	)
	cmd := &cobra.Command{
		Use:   "devserver",
		Short: "Serve a local Requests list backed by SQLite",
		RunE: func(_ *cobra.Command, _ []string) error {
			logger := logging.SetupStdout()
			if apiKey == "" {
				if cfg, err := config.Load(); err == nil {
					apiKey = cfg.APIKey
				}
			}

			store, err := devserver.Open(dbPath)
			if err != nil {
				return err
			}
			defer store.Close()

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if !noSeed {
				if err := devserver.Seed(ctx, store, time.Now()); err != nil {
					return fmt.Errorf("seed: %w", err)
				}
			}
			if apiKey == "" {
				logger.Warn("no api key configured; authentication disabled")
			}

			srv := devserver.New(store, apiKey, logger)
			errCh := make(chan error, 1)
			go func() { errCh <- srv.Start(addr) }()

			select {
			case err := <-errCh:
				return err
			case <-ctx.Done():
			}
			logger.Info("shutting down", slog.String("addr", addr))
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", ":8040", "listen address")
	cmd.Flags().StringVar(&dbPath, "db", "reqdesk.db", "SQLite database path")
	cmd.Flags().StringVar(&apiKey, "api-key", "", "required bearer key (defaults to the configured one)")
	cmd.Flags().BoolVar(&noSeed, "no-seed", false, "skip seeding an empty database")
	return cmd
}
