package main

import (
	"context"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/skybi/portal-gateway/internal/api"
	"github.com/skybi/portal-gateway/internal/config"
	"github.com/skybi/portal-gateway/internal/metrics"
	"github.com/skybi/portal-gateway/internal/storage"
	"github.com/skybi/portal-gateway/internal/task"
	"os"
	"os/signal"
	"syscall"
	"time"
)

func main() {
	// Set up zerolog to use pretty printing
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out: os.Stderr,
	})
	log.Info().Msg("starting up...")

	// Load the application configuration
	log.Info().Msg("loading configuration...")
	cfg, err := config.LoadFromEnv()
	if err != nil {
		log.Fatal().Err(err).Msg("could not load the configuration")
	}
	if cfg.IsEnvProduction() {
		log.Logger = zerolog.New(os.Stderr).With().Timestamp().Logger()
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Debug().Str("environment", cfg.Environment).Str("backend_url", cfg.BackendURL).Msg("loaded configuration")

	// Open the session storage
	log.Info().Str("driver", cfg.SessionStorage).Msg("opening the session storage...")
	sessionStorage, err := storage.Open(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("could not open the session storage")
	}
	defer sessionStorage.Close()

	registry := metrics.New()

	// Schedule a task that removes expired sessions
	sweepingTask := task.NewRepeating(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		n, err := sessionStorage.TerminateExpired(ctx)
		if err != nil {
			log.Error().Err(err).Msg("could not terminate expired sessions")
		} else if n > 0 {
			registry.SessionsExpired.Add(float64(n))
			log.Info().Int("amount", n).Msg("terminated expired sessions")
		}
	}, time.Minute)
	sweepingTask.Start()
	defer sweepingTask.Stop(false)

	// Start up the portal API
	log.Info().Str("address", cfg.ListenAddress).Msg("starting up the portal API...")
	apis := &api.Service{
		Config:         cfg,
		SessionStorage: sessionStorage,
		Metrics:        registry,
	}
	apiErrs := make(chan error, 1)
	if err := apis.Startup(apiErrs); err != nil {
		log.Fatal().Err(err).Msg("could not start up the portal API")
	}
	go func() {
		err := <-apiErrs
		log.Fatal().Err(err).Msg("the API service raised an unexpected error")
	}()
	defer func() {
		log.Info().Msg("shutting down the portal API...")
		apis.Shutdown()
	}()

	log.Info().Msg("done!")
	defer log.Info().Msg("shutting down...")

	// Wait for the application to be terminated
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)
	<-shutdown
}
