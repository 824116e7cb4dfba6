// Package slicer handles interaction with the 3D Slicer executable,
// which hosts the compiled CLI modules used for measurement export.
package slicer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
)

// Launcher locates 3D Slicer and builds the launch command strings
// passed to the measurement tools.
type Launcher struct {
	Path string
	Xvfb bool
}

// New creates a Launcher for the given Slicer executable path.
func New(path string, xvfb bool) *Launcher {
	return &Launcher{Path: path, Xvfb: xvfb}
}

// Validate resolves and checks the Slicer path.
func (l *Launcher) Validate() error {
	abs, err := filepath.Abs(l.Path)
	if err != nil {
		return goerr.Wrap(err, "failed to resolve Slicer path", goerr.V("path", l.Path))
	}
	if _, err := os.Stat(abs); err != nil {
		return goerr.New("3D Slicer not found", goerr.V("path", abs))
	}
	l.Path = abs
	return nil
}

// MeasurementCommand builds the command string used to launch the
// FiberTractMeasurements CLI module through Slicer. The result is a
// single string because the measurement tool receives it as one
// argument. A missing module is only a warning: some Slicer builds
// resolve modules internally.
func (l *Launcher) MeasurementCommand(ctx context.Context, module string) string {
	abs, err := filepath.Abs(module)
	if err == nil {
		module = abs
	}
	if _, err := os.Stat(module); err != nil {
		ctxlog.From(ctx).Warn("FiberTractMeasurements module not found", "module", module)
	}

	cmd := fmt.Sprintf("%s --launch %s", l.Path, module)
	if l.Xvfb {
		cmd = "xvfb-run -a " + cmd
	}
	return cmd
}
