package main

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/alexliesenfeld/health"
	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/keeper-labs/liquidation-engine/config"
)

// ChainReader reports the chain head. *ethclient.Client satisfies it.
type ChainReader interface {
	BlockNumber(ctx context.Context) (uint64, error)
}

func startHealthCheckService(
	ctx context.Context,
	logger zerolog.Logger,
	cfg config.Config,
	chain ChainReader,
) {
	// Create a new Checker.
	checker := health.NewChecker(
		health.WithCacheDuration(1*time.Second),
		health.WithTimeout(10*time.Second),
		// Run every minute with initial delay of 3 seconds. Not run each HTTP request
		health.WithPeriodicCheck(60*time.Second, 3*time.Second, health.Check{
			Name: "ethereum rpc",
			Check: func(ctx context.Context) error {
				_, err := chain.BlockNumber(ctx)
				return err
			},
		}),
		// Runs when health status changes
		health.WithStatusListener(func(ctx context.Context, state health.CheckerState) {
			logger.
				Debug().
				Str("status", string(state.Status)).
				Msg("health status changed")
		}),
	)

	r := chi.NewRouter()
	r.Get("/health", health.NewHandler(checker))

	server := &http.Server{
		Addr:    cfg.HealthListenAddr,
		Handler: r,
	}

	go func() {
		logger.
			Info().
			Msgf("healthcheck server listening on %s", server.Addr)

		if err := server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("failed to start healthcheck server")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()
}
