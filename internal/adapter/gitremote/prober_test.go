package gitremote

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"

	"github.com/cwygoda/tipwatch/internal/domain"
)

const (
	shaA = "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	shaB = "bbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
	shaC = "cccccccccccccccccccccccccccccccccccccccc"
)

func branch(name, sha string) *plumbing.Reference {
	return plumbing.NewHashReference(plumbing.NewBranchReferenceName(name), plumbing.NewHash(sha))
}

func TestTipCommit(t *testing.T) {
	tests := []struct {
		name   string
		refs   []*plumbing.Reference
		want   string
		wantOK bool
	}{
		{
			name: "symbolic HEAD wins over fallbacks",
			refs: []*plumbing.Reference{
				plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("develop")),
				branch("develop", shaA),
				branch("main", shaB),
				branch("master", shaC),
			},
			want:   shaA,
			wantOK: true,
		},
		{
			name: "plain HEAD hash",
			refs: []*plumbing.Reference{
				plumbing.NewHashReference(plumbing.HEAD, plumbing.NewHash(shaB)),
				branch("master", shaC),
			},
			want:   shaB,
			wantOK: true,
		},
		{
			name: "main preferred over master",
			refs: []*plumbing.Reference{
				branch("main", shaA),
				branch("master", shaB),
			},
			want:   shaA,
			wantOK: true,
		},
		{
			name: "master fallback",
			refs: []*plumbing.Reference{
				branch("feature", shaA),
				branch("master", shaB),
			},
			want:   shaB,
			wantOK: true,
		},
		{
			name: "dangling symbolic HEAD falls through to main",
			refs: []*plumbing.Reference{
				plumbing.NewSymbolicReference(plumbing.HEAD, plumbing.NewBranchReferenceName("gone")),
				branch("main", shaC),
			},
			want:   shaC,
			wantOK: true,
		},
		{
			name: "no default branch",
			refs: []*plumbing.Reference{
				branch("feature", shaA),
			},
			wantOK: false,
		},
		{
			name:   "empty listing",
			refs:   nil,
			wantOK: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := tipCommit(tt.refs)
			if ok != tt.wantOK {
				t.Fatalf("tipCommit() ok = %v, want %v", ok, tt.wantOK)
			}
			if got != tt.want {
				t.Errorf("tipCommit() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want domain.ProbeKind
	}{
		{"deadline", context.DeadlineExceeded, domain.ProbeTimeout},
		{"empty remote", transport.ErrEmptyRemoteRepository, domain.ProbeNoSuchRef},
		{"not found", transport.ErrRepositoryNotFound, domain.ProbeNetwork},
		{"auth required", transport.ErrAuthenticationRequired, domain.ProbeNetwork},
		{"anything else", errors.New("connection reset"), domain.ProbeNetwork},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.err); got != tt.want {
				t.Errorf("classify(%v) = %q, want %q", tt.err, got, tt.want)
			}
		})
	}
}

func TestProbeMalformedURL(t *testing.T) {
	p := New()
	_, err := p.Probe(context.Background(), "://not-a-url", time.Second)

	var perr *domain.ProbeError
	if !errors.As(err, &perr) {
		t.Fatalf("Probe() error = %v, want *domain.ProbeError", err)
	}
	if perr.Kind != domain.ProbeMalformed {
		t.Errorf("Probe() kind = %q, want %q", perr.Kind, domain.ProbeMalformed)
	}
}
