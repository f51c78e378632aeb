// Package server boots the process: connections, listeners, the HTTP server
// and the optional gRPC health server.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/shashiranjanraj/pcbuilder/app/listeners"
	"github.com/shashiranjanraj/pcbuilder/config"
	"github.com/shashiranjanraj/pcbuilder/pkg/cache"
	"github.com/shashiranjanraj/pcbuilder/pkg/database"
	"github.com/shashiranjanraj/pcbuilder/pkg/grpc"
	"github.com/shashiranjanraj/pcbuilder/pkg/logger"
	"github.com/shashiranjanraj/pcbuilder/pkg/storage"
)

const shutdownTimeout = 10 * time.Second

// Start runs until SIGINT/SIGTERM or ctx is cancelled, then drains in-flight
// requests. A missing Redis is not fatal; cache, sessions and locks fall back
// to process memory.
func Start(ctx context.Context) error {
	if err := config.Load(); err != nil {
		return fmt.Errorf("config: %w", err)
	}

	closeLogs, err := logger.ConnectMongo()
	if err != nil {
		logger.Warn("mongo log sink disabled", "error", err)
	}
	defer closeLogs()

	if err := database.Connect(); err != nil {
		return err
	}
	defer database.Close()

	if err := cache.Connect(ctx); err != nil {
		logger.Warn("redis unavailable, using in-process cache", "error", err)
	}
	defer cache.Close()

	if err := storage.Connect(ctx); err != nil {
		return fmt.Errorf("storage: %w", err)
	}

	listeners.Register()

	handler, err := Handler()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go listeners.Live.Run(ctx)

	var rpc *grpc.Server
	if port := config.GRPCPort(); port != "" {
		rpc = grpc.New(database.Ping)
		if err := rpc.Start(ctx, port); err != nil {
			return err
		}
		defer rpc.Stop()
	}

	srv := &http.Server{
		Addr:              ":" + config.AppPort(),
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("pcbuilder listening", "addr", srv.Addr, "env", config.AppEnv())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
