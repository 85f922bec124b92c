package server

import (
	"context"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
)

// shutdownGracePeriod bounds how long in-flight chat requests may keep the
// listener open; a slow Gemini call should not stall a redeploy forever.
const shutdownGracePeriod = 10 * time.Second

// GracefulShutdown blocks until SIGINT or SIGTERM, drains the HTTP server and
// then signals done. A second signal during the drain kills the process the
// default way.
func GracefulShutdown(srv *http.Server, logger *zap.Logger, done chan bool) {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()
	stop()

	logger.Info("Shutdown signal received, draining connections",
		zap.Duration("grace_period", shutdownGracePeriod))
	drain(srv, logger)

	done <- true
}

// drain gives in-flight requests shutdownGracePeriod to finish before the
// listener is torn down.
func drain(srv *http.Server, logger *zap.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownGracePeriod)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("HTTP server did not drain cleanly", zap.Error(err))
		return
	}
	logger.Info("HTTP server drained")
}
