package scheduler

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/cwygoda/tipwatch/internal/domain"
)

// Scheduler drives the poll cycle: probe the remote tip, compare against the
// last seen commit, fire the refresher on change, and only then persist. It
// is the only component that initiates work.
type Scheduler struct {
	// StartupDelay postpones the first cycle so the surrounding system can
	// settle after boot.
	StartupDelay time.Duration
	// DisabledInterval is the re-check cadence while polling is disabled or
	// the config is unreadable.
	DisabledInterval time.Duration

	source    domain.ConfigSource
	prober    domain.TipProber
	store     domain.ChangeStore
	refresher domain.Refresher

	mu       sync.Mutex
	inflight map[string]bool
	failures map[string]int
}

// New creates a scheduler. The refresher may be nil; change detection then
// fails the trigger step each cycle until one is configured, and state never
// advances.
func New(source domain.ConfigSource, prober domain.TipProber, store domain.ChangeStore, refresher domain.Refresher) *Scheduler {
	return &Scheduler{
		StartupDelay:     15 * time.Second,
		DisabledInterval: time.Minute,
		source:           source,
		prober:           prober,
		store:            store,
		refresher:        refresher,
		inflight:         make(map[string]bool),
		failures:         make(map[string]int),
	}
}

// Run executes cycles until the context is cancelled. The interval is read
// from the config snapshot of each cycle, so interval changes take effect on
// the next tick. No cycle outcome stops the loop.
func (s *Scheduler) Run(ctx context.Context) {
	log.Info().Msgf("scheduler started, first check in %s", s.StartupDelay)
	if !sleep(ctx, s.StartupDelay) {
		log.Info().Msg("scheduler shutting down")
		return
	}

	for {
		_, wait := s.cycle(ctx)
		log.Debug().Msgf("next check in %s", wait)
		if !sleep(ctx, wait) {
			log.Info().Msg("scheduler shutting down")
			return
		}
	}
}

// RunOnce executes a single cycle immediately and returns its outcome.
func (s *Scheduler) RunOnce(ctx context.Context) domain.PollOutcome {
	outcome, _ := s.cycle(ctx)
	return outcome
}

func (s *Scheduler) cycle(ctx context.Context) (domain.PollOutcome, time.Duration) {
	cfg, err := s.source.Snapshot(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("config unreadable, skipping cycle")
		return domain.Skipped("config: " + err.Error()), s.DisabledInterval
	}
	if !cfg.Enabled {
		log.Debug().Msg("polling disabled, skipping cycle")
		return domain.Skipped("disabled"), s.DisabledInterval
	}

	wait := cfg.Interval
	if wait < time.Minute {
		wait = s.DisabledInterval
	}
	if err := cfg.Validate(); err != nil {
		log.Warn().Err(err).Msg("invalid configuration, skipping cycle")
		return domain.Skipped(err.Error()), wait
	}

	target := domain.NewTarget(cfg.RepoURL)
	return s.poll(ctx, target, cfg.Interval), wait
}

// poll runs one probe-compare-trigger cycle for a target. The probe and the
// refresh call are both bounded by timeout, which never exceeds the polling
// interval, so a stalled remote cannot starve future cycles.
func (s *Scheduler) poll(ctx context.Context, target domain.RepositoryTarget, timeout time.Duration) domain.PollOutcome {
	if !s.acquire(target.FetchURL) {
		log.Debug().Msgf("cycle already in flight for %s, skipping", target.FetchURL)
		return domain.Skipped("already running")
	}
	defer s.release(target.FetchURL)

	log.Info().Msgf("checking %s", target.FetchURL)

	tip, err := s.prober.Probe(ctx, target.FetchURL, timeout)
	if err != nil {
		n := s.noteFailure(target.FetchURL)
		log.Warn().Err(err).Msgf("probe failed (%d consecutive), retrying next tick", n)
		return domain.ProbeFailed(err)
	}

	last, err := s.store.Load(ctx, target.FetchURL)
	if err != nil {
		n := s.noteFailure(target.FetchURL)
		log.Error().Err(err).Msgf("change state unreadable (%d consecutive)", n)
		return domain.StoreFailed("", tip, err)
	}

	if last == tip {
		s.clearFailures(target.FetchURL)
		log.Debug().Msgf("no change at %s (%s)", target.FetchURL, short(tip))
		return domain.NoChange(tip)
	}

	if last == "" {
		log.Info().Msgf("first observation of %s: %s", target.FetchURL, short(tip))
	} else {
		log.Info().Msgf("new commit %s (old %s)", short(tip), short(last))
	}

	if s.refresher == nil {
		err := &domain.TriggerError{Refresher: "none", Err: errors.New("no refresher registered")}
		n := s.noteFailure(target.FetchURL)
		log.Error().Err(err).Msgf("cannot refresh (%d consecutive)", n)
		return domain.TriggerFailed(last, tip, err)
	}

	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := s.refresher.Refresh(tctx, tip); err != nil {
		n := s.noteFailure(target.FetchURL)
		log.Warn().Err(err).Msgf("refresh failed (%d consecutive), state not advanced", n)
		return domain.TriggerFailed(last, tip, err)
	}

	// Persist strictly after the downstream effect succeeded. A crash between
	// the two leaves the old record, and the next cycle re-triggers.
	if err := s.store.Store(ctx, target.FetchURL, tip); err != nil {
		n := s.noteFailure(target.FetchURL)
		log.Error().Err(err).Msgf("failed to record commit (%d consecutive)", n)
		return domain.StoreFailed(last, tip, err)
	}

	s.clearFailures(target.FetchURL)
	log.Info().Msgf("assets refreshed at %s", short(tip))
	return domain.Changed(last, tip)
}

// acquire marks a fetch URL as having a cycle in flight. It returns false if
// one already is, so concurrent ticks for the same target drop instead of
// queueing.
func (s *Scheduler) acquire(fetchURL string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.inflight[fetchURL] {
		return false
	}
	s.inflight[fetchURL] = true
	return true
}

func (s *Scheduler) release(fetchURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.inflight, fetchURL)
}

func (s *Scheduler) noteFailure(fetchURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[fetchURL]++
	return s.failures[fetchURL]
}

func (s *Scheduler) clearFailures(fetchURL string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.failures, fetchURL)
}

// Failures returns the consecutive failure count for a fetch URL. It is
// informational only; failures never suppress future scheduled attempts.
func (s *Scheduler) Failures(fetchURL string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failures[fetchURL]
}

// sleep waits for d or cancellation, returning false when cancelled.
func sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-time.After(d):
		return true
	}
}

func short(commit string) string {
	if len(commit) > 7 {
		return commit[:7]
	}
	return commit
}
