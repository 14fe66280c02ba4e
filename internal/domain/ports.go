package domain

import (
	"context"
	"time"
)

// ConfigSource supplies a fresh configuration snapshot at the start of each
// cycle, so config edits take effect on the next tick.
type ConfigSource interface {
	Snapshot(ctx context.Context) (PollConfig, error)
}

// TipProber queries a remote repository for its current default-branch tip
// commit. A probe is a single attempt bounded by the given timeout; failures
// are reported as *ProbeError. The returned commit id is opaque and must only
// be compared for equality.
type TipProber interface {
	Probe(ctx context.Context, fetchURL string, timeout time.Duration) (string, error)
}

// ChangeStore is the driven port for durable last-seen state. Load returns
// the empty string when no record exists; it fails (*StorageError) only on
// unreadable storage. Store must be atomic with respect to process crash.
type ChangeStore interface {
	Load(ctx context.Context, fetchURL string) (string, error)
	Store(ctx context.Context, fetchURL, commit string) error
}

// Refresher is the boundary to the downstream asset-refresh collaborator.
// It is invoked at most once per detected change; failed invocations are
// retried only by virtue of the next scheduled cycle.
type Refresher interface {
	Name() string
	Refresh(ctx context.Context, commit string) error
}
