package cmdexec

import (
	"context"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// Recorder collects commands without executing them. It backs dry-run
// planning and tests. FailOn, when not empty, makes the matching tool
// invocation return Err so failure paths can be exercised.
type Recorder struct {
	Commands []model.Command
	FailOn   string
	Err      error
}

// NewRecorder creates an empty Recorder.
func NewRecorder() *Recorder {
	return &Recorder{}
}

// Run records the command.
func (r *Recorder) Run(_ context.Context, cmd model.Command) error {
	r.Commands = append(r.Commands, cmd)
	if r.FailOn != "" && cmd.Tool() == r.FailOn {
		return r.Err
	}
	return nil
}

// Tools returns the executable names in invocation order.
func (r *Recorder) Tools() []string {
	tools := make([]string, 0, len(r.Commands))
	for _, c := range r.Commands {
		tools = append(tools, c.Tool())
	}
	return tools
}
