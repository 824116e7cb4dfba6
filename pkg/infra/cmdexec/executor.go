package cmdexec

import (
	"context"
	"os/exec"
	"strings"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// outputTailLimit bounds how much tool output is attached to errors.
const outputTailLimit = 4096

// Executor runs commands with os/exec. When Xvfb is enabled, commands
// flagged as needing a display are wrapped in xvfb-run -a so Slicer
// can run on headless machines.
type Executor struct {
	Xvfb bool
}

// New creates an Executor.
func New(xvfb bool) *Executor {
	return &Executor{Xvfb: xvfb}
}

// Run executes one command and waits for it to finish. Non-zero exits
// become errors carrying the argv and the tail of the combined output.
func (e *Executor) Run(ctx context.Context, cmd model.Command) error {
	argv := cmd.Argv
	if e.Xvfb && cmd.Xvfb {
		argv = append([]string{"xvfb-run", "-a"}, argv...)
	}
	if len(argv) == 0 {
		return goerr.New("empty command")
	}

	logger := ctxlog.From(ctx)
	logger.Info("Executing external tool", "cmd", strings.Join(argv, " "))

	c := exec.CommandContext(ctx, argv[0], argv[1:]...)
	out, err := c.CombinedOutput()
	if len(out) > 0 {
		logger.Debug("Tool output", "tool", argv[0], "output", tail(string(out)))
	}
	if err != nil {
		return goerr.Wrap(err, "external tool failed",
			goerr.V("argv", argv),
			goerr.V("output", tail(string(out))),
		)
	}
	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if len(s) > outputTailLimit {
		return s[len(s)-outputTailLimit:]
	}
	return s
}
