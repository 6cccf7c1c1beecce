// Command farmacia wires the pharmacy client together: configuration,
// logging, the durable token store, the API client, and the session
// store/resolver pair. Views attach on top of these; the process keeps the
// session alive until interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/Zephyrodes/farmacia/internal/api"
	"github.com/Zephyrodes/farmacia/internal/core/session"
	"github.com/Zephyrodes/farmacia/internal/infrastructure/config"
	"github.com/Zephyrodes/farmacia/internal/infrastructure/store"
	"github.com/Zephyrodes/farmacia/pkg/logger"
)

func main() {
	cfg := config.Load()
	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.Env == "development",
	})

	tokens, err := store.OpenSQLite(cfg.TokenStorePath)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.TokenStorePath).Msg("failed to open token store")
	}
	defer tokens.Close()

	client := api.New(cfg.APIBaseURL, tokens, cfg.HTTPTimeout, log)

	sessions := session.NewStore(client, tokens, log)
	sessions.Subscribe(func(snap session.Snapshot) {
		log.Debug().Stringer("status", snap.Status).Msg("session state changed")
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	resolver := session.NewResolver(sessions, client, log)
	go resolver.Run(ctx)

	log.Info().Str("api", cfg.APIBaseURL).Msg("pharmacy client started")
	<-ctx.Done()
	log.Info().Msg("shutting down")
}
