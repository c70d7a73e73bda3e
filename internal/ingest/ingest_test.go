package ingest

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"testing"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
	"github.com/tonypowl/AutoSheetify/internal/exec"
	"github.com/tonypowl/AutoSheetify/internal/storage"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeRunner records invocations and runs a canned behavior instead of an
// external command.
type fakeRunner struct {
	calls  int
	result *exec.Result
	err    error
	onRun  func(args []string)
}

func (f *fakeRunner) Run(ctx context.Context, extraEnv []string, name string, args ...string) (*exec.Result, error) {
	f.calls++
	if f.onRun != nil {
		f.onRun(args)
	}
	if f.result == nil {
		return &exec.Result{}, f.err
	}
	return f.result, f.err
}

func newTestAcquirer(t *testing.T, runner commandRunner) (*Acquirer, *storage.Store) {
	t.Helper()
	store, err := storage.Open(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	return &Acquirer{store: store, runner: runner, logger: discardLogger()}, store
}

func dirEntries(t *testing.T, dir string) int {
	t.Helper()
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	return len(entries)
}

func TestAcquireNoInput(t *testing.T) {
	runner := &fakeRunner{}
	acquirer, store := newTestAcquirer(t, runner)

	_, err := acquirer.Acquire(context.Background(), Source{})
	if !errors.Is(err, apperrors.ErrNoInput) {
		t.Fatalf("err = %v, want ErrNoInput", err)
	}
	if apperrors.HTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperrors.HTTPStatus(err))
	}
	if runner.calls != 0 {
		t.Error("no external tool should run")
	}
	if n := dirEntries(t, store.Dir); n != 0 {
		t.Errorf("%d files written before validation", n)
	}
}

func TestAcquireUpload(t *testing.T) {
	acquirer, _ := newTestAcquirer(t, &fakeRunner{})

	first, err := acquirer.Acquire(context.Background(), Source{
		Upload: &Upload{Filename: "song.wav", Content: strings.NewReader("audio")},
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	second, err := acquirer.Acquire(context.Background(), Source{
		Upload: &Upload{Filename: "song.wav", Content: strings.NewReader("other")},
	})
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}

	if first.Path == second.Path {
		t.Errorf("concurrent uploads with the same name collided: %s", first.Path)
	}
	if first.DisplayName != "song" {
		t.Errorf("DisplayName = %q, want %q", first.DisplayName, "song")
	}
	if !strings.HasSuffix(first.Path, "_song.wav") {
		t.Errorf("base name and extension not preserved: %s", first.Path)
	}
	if _, err := os.Stat(first.Path); err != nil {
		t.Errorf("artifact missing on disk: %v", err)
	}
}

func TestAcquireRemoteInvalidURL(t *testing.T) {
	runner := &fakeRunner{}
	acquirer, store := newTestAcquirer(t, runner)

	_, err := acquirer.Acquire(context.Background(), Source{RemoteURL: "https://example.com/watch?v=short"})
	if !errors.Is(err, apperrors.ErrInvalidURL) {
		t.Fatalf("err = %v, want ErrInvalidURL", err)
	}
	if apperrors.HTTPStatus(err) != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", apperrors.HTTPStatus(err))
	}
	if !strings.Contains(apperrors.Detail(err), "invalid YouTube URL format") {
		t.Errorf("detail = %q", apperrors.Detail(err))
	}
	if runner.calls != 0 {
		t.Error("no download attempt should be made for an unmatchable URL")
	}
	if n := dirEntries(t, store.Dir); n != 0 {
		t.Errorf("%d files written for rejected URL", n)
	}
}

func TestAcquireRemote(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		runner := &fakeRunner{}
		acquirer, store := newTestAcquirer(t, runner)

		downloaded := ""
		runner.onRun = func(args []string) {
			downloaded = store.Path("deadbeef_youtube_video_dQw4w9WgXcQ.mp3")
			os.WriteFile(downloaded, []byte("mp3"), 0o644)
			runner.result = &exec.Result{
				Stdout: `{"title":"Never Gonna Give You Up","requested_downloads":[{"filepath":"` + downloaded + `"}]}`,
			}
		}

		artifact, err := acquirer.Acquire(context.Background(), Source{
			RemoteURL: "https://youtu.be/dQw4w9WgXcQ",
		})
		if err != nil {
			t.Fatalf("Acquire: %v", err)
		}
		if artifact.Path != downloaded {
			t.Errorf("Path = %s, want %s", artifact.Path, downloaded)
		}
		if artifact.DisplayName != "Never Gonna Give You Up" {
			t.Errorf("DisplayName = %q, want the video title", artifact.DisplayName)
		}
	})

	t.Run("ToolFailure", func(t *testing.T) {
		runner := &fakeRunner{
			result: &exec.Result{Stderr: "ERROR: video unavailable", ExitCode: 1},
			err:    errors.New("exit status 1"),
		}
		acquirer, _ := newTestAcquirer(t, runner)

		_, err := acquirer.Acquire(context.Background(), Source{RemoteURL: "https://youtu.be/dQw4w9WgXcQ"})
		if err == nil {
			t.Fatal("expected error")
		}
		if apperrors.HTTPStatus(err) != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", apperrors.HTTPStatus(err))
		}
		if !strings.Contains(apperrors.Detail(err), "video unavailable") {
			t.Errorf("detail should carry tool stderr, got %q", apperrors.Detail(err))
		}
	})

	t.Run("ManifestWithoutAudioEntry", func(t *testing.T) {
		runner := &fakeRunner{result: &exec.Result{Stdout: `{"title":"t","requested_downloads":[{"filepath":"clip.webm"}]}`}}
		acquirer, _ := newTestAcquirer(t, runner)

		_, err := acquirer.Acquire(context.Background(), Source{RemoteURL: "https://youtu.be/dQw4w9WgXcQ"})
		if err == nil {
			t.Fatal("expected error when no manifest entry has the audio extension")
		}
	})

	t.Run("ReportedFileMissingOnDisk", func(t *testing.T) {
		// Tool reported success but the file is gone; as fatal as a failed
		// download.
		runner := &fakeRunner{result: &exec.Result{Stdout: `{"requested_downloads":[{"filepath":"/nonexistent/a.mp3"}]}`}}
		acquirer, _ := newTestAcquirer(t, runner)

		_, err := acquirer.Acquire(context.Background(), Source{RemoteURL: "https://youtu.be/dQw4w9WgXcQ"})
		if err == nil {
			t.Fatal("expected error for a missing downloaded file")
		}
		if apperrors.HTTPStatus(err) != http.StatusInternalServerError {
			t.Errorf("status = %d, want 500", apperrors.HTTPStatus(err))
		}
	})
}
