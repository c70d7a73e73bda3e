// Package ingest normalizes heterogeneous input, an uploaded file or a
// YouTube URL, into a single local audio artifact.
package ingest

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
	"github.com/tonypowl/AutoSheetify/internal/exec"
	"github.com/tonypowl/AutoSheetify/internal/storage"
)

// Upload is a raw uploaded file.
type Upload struct {
	Filename string
	Content  io.Reader
}

// Source is the request input. Exactly one field must be set.
type Source struct {
	Upload    *Upload
	RemoteURL string
}

// AudioArtifact is the acquired local audio file. Path is unique per
// request; DisplayName is the human-readable original name.
type AudioArtifact struct {
	Path        string
	DisplayName string
}

// Acquirer turns a Source into an AudioArtifact on disk.
type Acquirer struct {
	store  *storage.Store
	runner commandRunner
	logger *slog.Logger
}

type commandRunner interface {
	Run(ctx context.Context, extraEnv []string, name string, args ...string) (*exec.Result, error)
}

// NewAcquirer creates an acquirer writing into the given store.
func NewAcquirer(store *storage.Store, runner *exec.Runner, logger *slog.Logger) *Acquirer {
	return &Acquirer{store: store, runner: runner, logger: logger}
}

// Acquire produces exactly one AudioArtifact, or an input-stage error.
// With neither source set it fails before doing any I/O.
func (a *Acquirer) Acquire(ctx context.Context, src Source) (*AudioArtifact, error) {
	switch {
	case src.Upload != nil:
		return a.saveUpload(src.Upload)
	case src.RemoteURL != "":
		return a.downloadRemote(ctx, src.RemoteURL)
	default:
		return nil, apperrors.Input(apperrors.ErrNoInput.Error(), apperrors.ErrNoInput)
	}
}

func (a *Acquirer) saveUpload(upload *Upload) (*AudioArtifact, error) {
	ext := filepath.Ext(upload.Filename)
	display := strings.TrimSuffix(filepath.Base(upload.Filename), ext)

	path, err := a.store.SaveUpload(upload.Content, "_"+display+ext)
	if err != nil {
		return nil, apperrors.Input("failed to save uploaded file", err)
	}

	a.logger.Info("file uploaded", slog.String("path", path), slog.String("name", display))

	return &AudioArtifact{Path: path, DisplayName: display}, nil
}
