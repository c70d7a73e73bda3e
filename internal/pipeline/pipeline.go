// Package pipeline runs the transcription stages in order: acquire audio,
// detect notes, render a score. Failure at any stage aborts with that
// stage's typed error; files written by earlier stages stay on disk.
package pipeline

import (
	"context"
	"log/slog"

	"github.com/tonypowl/AutoSheetify/internal/auth"
	"github.com/tonypowl/AutoSheetify/internal/ingest"
	"github.com/tonypowl/AutoSheetify/internal/render"
)

// Request is one transcription call. InstrumentHint is threaded through for
// future use but does not change downstream behavior yet.
type Request struct {
	Source         ingest.Source
	InstrumentHint string
	Caller         *auth.Identity
}

// Output holds the produced artifact paths. ScorePath is empty when score
// rendering was skipped.
type Output struct {
	NotePath    string
	ScorePath   string
	DisplayName string
}

type acquirer interface {
	Acquire(ctx context.Context, src ingest.Source) (*ingest.AudioArtifact, error)
}

type transcriber interface {
	Transcribe(ctx context.Context, audioPath string) (string, error)
}

type renderer interface {
	Render(ctx context.Context, notePath string) (render.Outcome, error)
}

// Pipeline wires the stages together.
type Pipeline struct {
	acquirer    acquirer
	transcriber transcriber
	renderer    renderer
	logger      *slog.Logger
}

// New creates a pipeline from its stage implementations.
func New(a acquirer, t transcriber, r renderer, logger *slog.Logger) *Pipeline {
	return &Pipeline{acquirer: a, transcriber: t, renderer: r, logger: logger}
}

// Run executes the stages strictly sequentially for one request.
func (p *Pipeline) Run(ctx context.Context, req Request) (*Output, error) {
	p.logger.Info("transcription request",
		slog.String("user", callerEmail(req.Caller)),
		slog.String("user_id", callerID(req.Caller)),
		slog.String("instrument", req.InstrumentHint),
	)

	audio, err := p.acquirer.Acquire(ctx, req.Source)
	if err != nil {
		return nil, err
	}

	notePath, err := p.transcriber.Transcribe(ctx, audio.Path)
	if err != nil {
		return nil, err
	}
	p.logger.Info("MIDI generated", slog.String("path", notePath))

	outcome, err := p.renderer.Render(ctx, notePath)
	if err != nil {
		return nil, err
	}

	out := &Output{NotePath: notePath, DisplayName: audio.DisplayName}
	if outcome.State == render.Produced {
		out.ScorePath = outcome.Path
		p.logger.Info("PDF generated", slog.String("path", outcome.Path))
	}
	return out, nil
}

func callerEmail(caller *auth.Identity) string {
	if caller == nil || caller.Email == "" {
		return "Unknown Email"
	}
	return caller.Email
}

func callerID(caller *auth.Identity) string {
	if caller == nil || caller.ID == "" {
		return "Unknown ID"
	}
	return caller.ID
}
