package gitremote

import (
	"context"
	"errors"
	"time"

	"github.com/go-git/go-git/v5"
	gitconfig "github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/transport"
	"github.com/go-git/go-git/v5/storage/memory"

	"github.com/cwygoda/tipwatch/internal/domain"
)

// Fallback branch names tried when the remote does not advertise a symbolic
// HEAD, most common first.
var fallbackBranches = []plumbing.ReferenceName{
	plumbing.NewBranchReferenceName("main"),
	plumbing.NewBranchReferenceName("master"),
}

// Prober implements domain.TipProber with an ls-remote style reference
// listing. No repository content is fetched.
type Prober struct{}

func New() *Prober {
	return &Prober{}
}

// Probe lists the remote's advertised references and returns the tip commit
// of the default branch. It is a single attempt bounded by timeout; the
// scheduler owns retries.
func (p *Prober) Probe(ctx context.Context, fetchURL string, timeout time.Duration) (string, error) {
	if _, err := transport.NewEndpoint(fetchURL); err != nil {
		return "", &domain.ProbeError{Kind: domain.ProbeMalformed, URL: fetchURL, Err: err}
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	remote := git.NewRemote(memory.NewStorage(), &gitconfig.RemoteConfig{
		Name: "origin",
		URLs: []string{fetchURL},
	})
	refs, err := remote.ListContext(ctx, &git.ListOptions{})
	if err != nil {
		return "", &domain.ProbeError{Kind: classify(err), URL: fetchURL, Err: err}
	}

	commit, ok := tipCommit(refs)
	if !ok {
		return "", &domain.ProbeError{
			Kind: domain.ProbeNoSuchRef,
			URL:  fetchURL,
			Err:  errors.New("no default branch advertised"),
		}
	}
	return commit, nil
}

// tipCommit selects the default-branch tip from an advertised reference
// listing: the symbolic HEAD target if present, a plain HEAD hash otherwise,
// then the fallback branch names.
func tipCommit(refs []*plumbing.Reference) (string, bool) {
	byName := make(map[plumbing.ReferenceName]*plumbing.Reference, len(refs))
	for _, ref := range refs {
		byName[ref.Name()] = ref
	}

	if head, ok := byName[plumbing.HEAD]; ok {
		switch head.Type() {
		case plumbing.SymbolicReference:
			if target, ok := byName[head.Target()]; ok && !target.Hash().IsZero() {
				return target.Hash().String(), true
			}
		case plumbing.HashReference:
			if !head.Hash().IsZero() {
				return head.Hash().String(), true
			}
		}
	}

	for _, name := range fallbackBranches {
		if ref, ok := byName[name]; ok && !ref.Hash().IsZero() {
			return ref.Hash().String(), true
		}
	}
	return "", false
}

func classify(err error) domain.ProbeKind {
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return domain.ProbeTimeout
	case errors.Is(err, transport.ErrEmptyRemoteRepository):
		return domain.ProbeNoSuchRef
	case errors.Is(err, transport.ErrRepositoryNotFound),
		errors.Is(err, transport.ErrAuthenticationRequired),
		errors.Is(err, transport.ErrAuthorizationFailed):
		return domain.ProbeNetwork
	default:
		return domain.ProbeNetwork
	}
}
