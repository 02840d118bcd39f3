package server

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/AlibekovAA/auth-api/internal/common/constants"
	"github.com/AlibekovAA/auth-api/internal/common/logger"
)

type ShutdownHook func(ctx context.Context) error

// Run serves until ctx is cancelled or SIGINT/SIGTERM arrives, then drains
// in-flight requests and runs hooks.
func Run(ctx context.Context, server *http.Server, log *logger.Logger, serviceName string, hooks ...ShutdownHook) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	serveErr := make(chan error, 1)
	go func() {
		log.Infof("%s service listening on %s", serviceName, server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err, ok := <-serveErr:
		if ok {
			log.Errorf("failed to start %s service: %v", serviceName, err)
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infof("shutting down %s service...", serviceName)

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), constants.ShutdownTimeout)
	defer shutdownCancel()

	server.SetKeepAlivesEnabled(false)

	shutdownErr := server.Shutdown(shutdownCtx)
	if shutdownErr != nil {
		log.Errorf("%s service forced to shutdown: %v", serviceName, shutdownErr)
	} else {
		log.Infof("%s service stopped gracefully", serviceName)
	}

	if len(hooks) > 0 {
		hookCtx, hookCancel := context.WithTimeout(context.Background(), constants.DrainTimeout)
		defer hookCancel()

		log.Infof("%s service: executing shutdown hooks", serviceName)
		for i, hook := range hooks {
			if err := hook(hookCtx); err != nil {
				log.Errorf("%s service: shutdown hook %d failed: %v", serviceName, i, err)
			}
		}
	}

	return shutdownErr
}

