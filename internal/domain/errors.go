package domain

import (
	"errors"
	"fmt"
)

// ErrConfigInvalid marks configuration snapshots that cannot drive a cycle.
var ErrConfigInvalid = errors.New("invalid poll configuration")

// ProbeKind classifies why a remote tip probe failed.
type ProbeKind string

const (
	ProbeNetwork   ProbeKind = "network"
	ProbeTimeout   ProbeKind = "timeout"
	ProbeNoSuchRef ProbeKind = "no-such-ref"
	ProbeMalformed ProbeKind = "malformed"
)

// ProbeError is returned by a TipProber for a single failed attempt. The
// prober never retries; retry policy belongs to the scheduler.
type ProbeError struct {
	Kind ProbeKind
	URL  string
	Err  error
}

func (e *ProbeError) Error() string {
	return fmt.Sprintf("probe %s: %s: %v", e.URL, e.Kind, e.Err)
}

func (e *ProbeError) Unwrap() error { return e.Err }

// StorageError wraps failures of the change state store. Absence of a record
// is not an error.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("change state %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

// TriggerError wraps a failed downstream refresh invocation.
type TriggerError struct {
	Refresher string
	Err       error
}

func (e *TriggerError) Error() string {
	return fmt.Sprintf("refresher %s: %v", e.Refresher, e.Err)
}

func (e *TriggerError) Unwrap() error { return e.Err }
