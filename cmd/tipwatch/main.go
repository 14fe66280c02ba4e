package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/cwygoda/tipwatch/internal/adapter/gitremote"
	"github.com/cwygoda/tipwatch/internal/adapter/refresh"
	"github.com/cwygoda/tipwatch/internal/adapter/sqlite"
	"github.com/cwygoda/tipwatch/internal/config"
	"github.com/cwygoda/tipwatch/internal/domain"
	"github.com/cwygoda/tipwatch/internal/scheduler"
)

func init() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr}).With().Logger()
}

func main() {
	settings := config.Load()

	log.Info().Msgf("starting tipwatch")
	log.Info().Msgf("config file: %s", settings.ConfigPath)
	log.Info().Msgf("state database: %s", settings.StatePath)

	store, err := sqlite.New(settings.StatePath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to initialize state database")
	}
	defer store.Close()

	source := config.NewFile(settings.ConfigPath)
	values, err := source.Read()
	if err != nil {
		// The scheduler keeps re-reading; a bad file at boot only delays things.
		log.Warn().Err(err).Msg("config file unreadable at startup")
	}

	registry := refresh.NewRegistry()
	if values.Refresh.Command != "" {
		registry.Register(refresh.NewCommand(values.Refresh.Name, values.Refresh.Command, values.Refresh.Args))
	} else {
		log.Warn().Msg("no refresh command configured; changes will be detected but not acted on")
	}

	logResumePoint(store, values.RepoURL)

	sched := scheduler.New(source, gitremote.New(), store, registry.Lookup(values.Refresh.Name))
	sched.StartupDelay = settings.StartupDelay

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	sig := <-sigCh
	log.Info().Msgf("received signal %v, shutting down", sig)

	cancel()
	<-done

	log.Info().Msg("shutdown complete")
}

// logResumePoint reports the persisted last-seen commit for the configured
// repository, if any, so restarts are visible in the log.
func logResumePoint(store *sqlite.Store, repoURL string) {
	if repoURL == "" {
		return
	}
	target := domain.NewTarget(repoURL)
	rec, err := store.Record(context.Background(), target.FetchURL)
	if err != nil {
		log.Warn().Err(err).Msg("could not read last-seen commit")
		return
	}
	if rec == nil {
		log.Info().Msgf("no previous state for %s, first check will trigger a refresh", target.FetchURL)
		return
	}
	log.Info().Msgf("resuming %s from %.7s (recorded %s)", target.FetchURL, rec.LastSeenCommit, rec.UpdatedAt.Format("2006-01-02 15:04:05"))
}
