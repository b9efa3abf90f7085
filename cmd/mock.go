package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/absensi/absensi/internal/mockapi"
)

const shutdownTimeout = 10 * time.Second

func newMockServerCmd() *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Serve the demo backend",
		Long: fmt.Sprintf(`mock-server serves the demo data under %s with server side paging.
Every seeded account logs in with the password %q. Metrics are exposed at /metrics.`,
			mockapi.APIPrefix, mockapi.DemoPassword),
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(*absensiFlags.LogLevel, os.Stderr)
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return serveMock(ctx, addr, log)
		},
	}
	cmd.Flags().StringVarP(&addr, "addr", "a", ":8080", "Listen address")

	return cmd
}

func serveMock(ctx context.Context, addr string, log *slog.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           mockapi.New(mockapi.WithLogger(log)).Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("mock backend listening", "addr", addr, "prefix", mockapi.APIPrefix)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock server: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		log.Info("mock backend shutting down")
		return srv.Shutdown(shutdownCtx)
	})

	return g.Wait()
}
