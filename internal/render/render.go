// Package render converts a MIDI note file into a PDF score with MuseScore.
// A missing MuseScore install is a graceful degradation; a MuseScore run
// that fails or produces nothing is not.
package render

import (
	"context"
	"log/slog"
	"os"
	osexec "os/exec"
	"path/filepath"
	"strings"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
	"github.com/tonypowl/AutoSheetify/internal/exec"
)

// State distinguishes a produced score from a gracefully skipped one and
// from a run that succeeded but left no file behind.
type State int

const (
	Produced State = iota
	SkippedUnavailable
	FailedMissingOutput
)

// Outcome is the rendering result. Path is set only when State is Produced.
type Outcome struct {
	State State
	Path  string
}

// musescoreCommands is the ordered list of known executables to probe.
var musescoreCommands = []string{"musescore3", "musescore", "mscore"}

type commandRunner interface {
	Run(ctx context.Context, extraEnv []string, name string, args ...string) (*exec.Result, error)
}

// Renderer invokes MuseScore in headless mode.
type Renderer struct {
	runner   commandRunner
	lookPath func(string) (string, error)
	logger   *slog.Logger
}

// New creates a renderer that probes PATH for a MuseScore executable.
func New(runner *exec.Runner, logger *slog.Logger) *Renderer {
	return &Renderer{runner: runner, lookPath: osexec.LookPath, logger: logger}
}

// Render converts notePath to a PDF next to it. When no MuseScore command
// resolves, the outcome is SkippedUnavailable and no error is returned.
func (r *Renderer) Render(ctx context.Context, notePath string) (Outcome, error) {
	command := r.resolveCommand()
	if command == "" {
		r.logger.Warn("MuseScore not found, skipping PDF generation")
		return Outcome{State: SkippedUnavailable}, nil
	}

	scorePath := strings.TrimSuffix(notePath, filepath.Ext(notePath)) + ".pdf"

	// Headless graphics mode is forced for this invocation only; the
	// process environment is never mutated.
	env := []string{"QT_QPA_PLATFORM=offscreen", "DISPLAY=:99"}

	result, err := r.runner.Run(ctx, env, command, "--no-gui", "-o", scorePath, notePath)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = strings.TrimSpace(result.Stderr)
		}
		return Outcome{}, apperrors.Rendering("MuseScore conversion failed", stderr, err)
	}

	if _, err := os.Stat(scorePath); err != nil {
		return Outcome{State: FailedMissingOutput},
			apperrors.Rendering("MuseScore did not generate a PDF at "+scorePath, "", apperrors.ErrMissingOutput)
	}

	return Outcome{State: Produced, Path: scorePath}, nil
}

func (r *Renderer) resolveCommand() string {
	for _, candidate := range musescoreCommands {
		if _, err := r.lookPath(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
