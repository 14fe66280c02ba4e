package refresh

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/cwygoda/tipwatch/internal/domain"
)

// Command runs an external program to refresh downstream assets. The commit
// id replaces the {commit} placeholder in args and is exported as
// TIPWATCH_COMMIT in the environment.
type Command struct {
	name    string
	command string
	args    []string
}

// NewCommand creates a refresher from config.
func NewCommand(name, command string, args []string) *Command {
	if name == "" {
		name = command
	}
	return &Command{name: name, command: command, args: args}
}

func (c *Command) Name() string {
	return c.name
}

// Refresh runs the command once. A non-zero exit is a TriggerError; the
// scheduler re-attempts on the next cycle because state only advances after
// success.
func (c *Command) Refresh(ctx context.Context, commit string) error {
	args := make([]string, len(c.args))
	for i, arg := range c.args {
		args[i] = strings.ReplaceAll(arg, "{commit}", commit)
	}

	cmd := exec.CommandContext(ctx, c.command, args...)
	cmd.Env = append(os.Environ(), "TIPWATCH_COMMIT="+commit)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return &domain.TriggerError{
			Refresher: c.name,
			Err:       fmt.Errorf("%s failed: %w: %s", c.command, err, string(output)),
		}
	}

	log.Debug().Msgf("refresher %s finished for %s", c.name, commit)
	return nil
}
