package interfaces

import (
	"context"

	"github.com/naba-lab/parcellate/pkg/domain/model"
)

// CommandExecutor runs external tool invocations. Implementations
// decide whether commands actually execute (cmdexec.Executor) or are
// only recorded (cmdexec.Recorder, used by tests and dry-run).
type CommandExecutor interface {
	Run(ctx context.Context, cmd model.Command) error
}
