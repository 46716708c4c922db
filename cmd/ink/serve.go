// Copyright 2026 The gogpu Authors
// SPDX-License-Identifier: BSD-3-Clause

package main

import (
	"context"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/ink/internal/server"
	"github.com/gogpu/ink/store"
)

var (
	serveConfig string
	serveAddr   string
	serveDB     string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the diary API and live drawing boards",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadServeConfig()
		if err != nil {
			return err
		}

		ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer cancel()

		st, err := store.Open(cfg.DBPath, store.WithMkdirAll())
		if err != nil {
			return err
		}
		defer st.Close()

		return serve(ctx, cfg, server.New(cfg, st))
	},
}

// loadServeConfig reads --config when given; flags override the file.
func loadServeConfig() (*server.Config, error) {
	cfg := server.DefaultConfig()
	if serveConfig != "" {
		var err error
		if cfg, err = server.LoadConfigFile(serveConfig); err != nil {
			return nil, err
		}
	}
	if serveAddr != "" {
		cfg.Addr = serveAddr
	}
	if serveDB != "" {
		cfg.DBPath = serveDB
	}
	return cfg, nil
}

// serve runs h on cfg.Addr until ctx ends.
func serve(ctx context.Context, cfg *server.Config, h http.Handler) error {
	ln, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return err
	}
	return serveListener(ctx, ln, cfg, h)
}

// serveListener serves h on ln until ctx ends, then shuts down
// gracefully. Live sessions derive from ctx, so they close with it.
func serveListener(ctx context.Context, ln net.Listener, cfg *server.Config, h http.Handler) error {
	g, ctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	g.Go(func() error {
		slog.Info("serving", "addr", ln.Addr().String(), "db", cfg.DBPath)
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		slog.Info("shutting down")
		return srv.Shutdown(sctx)
	})
	return g.Wait()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringVarP(&serveConfig, "config", "c", "", "YAML config file")
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "Listen address (overrides config)")
	serveCmd.Flags().StringVar(&serveDB, "db", "", "SQLite database path (overrides config)")
}
