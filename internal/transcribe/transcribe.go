// Package transcribe invokes the Basic Pitch note-detection model over an
// audio file and resolves the MIDI file it writes.
package transcribe

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/tonypowl/AutoSheetify/internal/artifact"
	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
	"github.com/tonypowl/AutoSheetify/internal/exec"
)

// NoteSuffix is Basic Pitch's naming convention for its MIDI output:
// <audio base>_basic_pitch.mid.
const NoteSuffix = "_basic_pitch.mid"

type commandRunner interface {
	Run(ctx context.Context, extraEnv []string, name string, args ...string) (*exec.Result, error)
}

// Transcriber converts audio to MIDI using the basic-pitch CLI.
type Transcriber struct {
	runner    commandRunner
	outputDir string
	modelPath string
}

// New creates a transcriber writing into outputDir. modelPath overrides the
// model weights location when non-empty.
func New(runner *exec.Runner, outputDir, modelPath string) *Transcriber {
	return &Transcriber{runner: runner, outputDir: outputDir, modelPath: modelPath}
}

// Transcribe runs the model and returns the path of the produced MIDI file.
// Only the MIDI output is requested; sonification and raw model outputs are
// not. The actual on-disk name may diverge from the expected one, so the
// expected path is tried first and the output directory scanned as a
// fallback. A missing note file is a hard failure.
func (t *Transcriber) Transcribe(ctx context.Context, audioPath string) (string, error) {
	base := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	expected := filepath.Join(t.outputDir, base+NoteSuffix)

	args := []string{t.outputDir, audioPath}
	if t.modelPath != "" {
		args = append(args, "--model-path", t.modelPath)
	}

	result, err := t.runner.Run(ctx, nil, "basic-pitch", args...)
	if err != nil {
		stderr := ""
		if result != nil {
			stderr = strings.TrimSpace(result.Stderr)
		}
		return "", apperrors.Transcription("failed to convert audio to MIDI", stderr, err)
	}

	notePath, err := artifact.Locate(t.outputDir, expected, base, NoteSuffix)
	if err != nil {
		return "", apperrors.Transcription("Basic Pitch did not generate a MIDI file for "+base, "", err)
	}
	return notePath, nil
}
