package domain

import (
	"fmt"
	"strings"
	"time"
)

// RepositoryTarget is a configured repository and the canonical fetch URL
// derived from it. It is recomputed on every cycle and never persisted.
type RepositoryTarget struct {
	RawURL   string
	FetchURL string
}

// NewTarget derives the canonical fetch URL for a configured repository URL.
func NewTarget(rawURL string) RepositoryTarget {
	return RepositoryTarget{RawURL: rawURL, FetchURL: Normalize(rawURL)}
}

// ChangeRecord is the durable last-seen state for one normalized fetch URL.
type ChangeRecord struct {
	FetchURL       string
	LastSeenCommit string
	UpdatedAt      time.Time
}

// PollConfig is an immutable snapshot of the polling configuration, read at
// the start of each cycle. The config may change between cycles.
type PollConfig struct {
	Enabled  bool
	Interval time.Duration
	RepoURL  string
}

// Validate reports whether the snapshot can drive a cycle.
func (c PollConfig) Validate() error {
	if c.Interval < time.Minute {
		return fmt.Errorf("%w: interval %s below one minute", ErrConfigInvalid, c.Interval)
	}
	if c.RepoURL == "" {
		return fmt.Errorf("%w: no repository URL configured", ErrConfigInvalid)
	}
	if !strings.HasPrefix(c.RepoURL, "http") {
		return fmt.Errorf("%w: repository URL %q is not an http(s) URL", ErrConfigInvalid, c.RepoURL)
	}
	return nil
}
