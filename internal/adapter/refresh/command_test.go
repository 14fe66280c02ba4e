package refresh

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/cwygoda/tipwatch/internal/domain"
)

func TestCommandRefreshSubstitutesCommit(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "commit.txt")

	c := NewCommand("script", "sh", []string{"-c", "printf %s {commit} > " + out})
	if err := c.Refresh(context.Background(), "abc123"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "abc123" {
		t.Errorf("command saw commit %q, want %q", data, "abc123")
	}
}

func TestCommandRefreshExportsEnv(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "env.txt")

	c := NewCommand("script", "sh", []string{"-c", `printf %s "$TIPWATCH_COMMIT" > ` + out})
	if err := c.Refresh(context.Background(), "def456"); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("read output: %v", err)
	}
	if string(data) != "def456" {
		t.Errorf("TIPWATCH_COMMIT = %q, want %q", data, "def456")
	}
}

func TestCommandRefreshFailure(t *testing.T) {
	c := NewCommand("failing", "sh", []string{"-c", "echo broken >&2; exit 1"})

	err := c.Refresh(context.Background(), "abc123")
	var terr *domain.TriggerError
	if !errors.As(err, &terr) {
		t.Fatalf("Refresh() error = %v, want *domain.TriggerError", err)
	}
	if terr.Refresher != "failing" {
		t.Errorf("TriggerError.Refresher = %q, want %q", terr.Refresher, "failing")
	}
}

func TestCommandNameDefaultsToCommand(t *testing.T) {
	c := NewCommand("", "refresh-assets", nil)
	if c.Name() != "refresh-assets" {
		t.Errorf("Name() = %q, want %q", c.Name(), "refresh-assets")
	}
}

func TestRegistryLookup(t *testing.T) {
	reg := NewRegistry()
	if got := reg.Lookup(""); got != nil {
		t.Errorf("Lookup() on empty registry = %v, want nil", got)
	}

	first := NewCommand("gamedata", "true", nil)
	second := NewCommand("other", "true", nil)
	reg.Register(first)
	reg.Register(second)

	if got := reg.Lookup("gamedata"); got != domain.Refresher(first) {
		t.Errorf("Lookup(gamedata) = %v, want first refresher", got)
	}
	if got := reg.Lookup("other"); got != domain.Refresher(second) {
		t.Errorf("Lookup(other) = %v, want second refresher", got)
	}
	if got := reg.Lookup(""); got != domain.Refresher(first) {
		t.Errorf("Lookup(\"\") = %v, want first registered", got)
	}
	if got := reg.Lookup("missing"); got != nil {
		t.Errorf("Lookup(missing) = %v, want nil", got)
	}
	if n := len(reg.Refreshers()); n != 2 {
		t.Errorf("len(Refreshers()) = %d, want 2", n)
	}
}
