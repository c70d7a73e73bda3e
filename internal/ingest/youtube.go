package ingest

import (
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"regexp"
	"strings"

	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
)

// videoIDPattern matches the 11-character video id in the common YouTube
// URL shapes: watch?v=, youtu.be/, embed/ and /vi/.
var videoIDPattern = regexp.MustCompile(`(?:v=|youtu\.be/|embed/|watch\?v=|/vi/)([\w-]{11})`)

// ExtractVideoID pulls the video id out of a YouTube URL.
func ExtractVideoID(url string) (string, bool) {
	m := videoIDPattern.FindStringSubmatch(url)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// downloadManifest is the subset of yt-dlp's JSON output we need to locate
// the produced file and title it.
type downloadManifest struct {
	Title              string `json:"title"`
	Filepath           string `json:"filepath"`
	RequestedDownloads []struct {
		Filepath string `json:"filepath"`
	} `json:"requested_downloads"`
}

func (a *Acquirer) downloadRemote(ctx context.Context, url string) (*AudioArtifact, error) {
	videoID, ok := ExtractVideoID(url)
	if !ok {
		return nil, apperrors.Input(apperrors.ErrInvalidURL.Error(), apperrors.ErrInvalidURL)
	}

	base := "youtube_video_" + videoID
	template := a.store.Path(a.store.UniqueName("_" + base + ".%(ext)s"))

	result, err := a.runner.Run(ctx, nil, "yt-dlp",
		"-f", "bestaudio/best",
		"-x",
		"--audio-format", "mp3",
		"--audio-quality", "192K",
		"-o", template,
		"--no-playlist",
		"--retries", "3",
		"--quiet",
		"--no-warnings",
		"--print-json",
		url,
	)
	if err != nil {
		detail := "failed to download or process YouTube audio"
		stderr := ""
		if result != nil {
			stderr = strings.TrimSpace(result.Stderr)
		}
		return nil, &apperrors.PipelineError{Stage: apperrors.StageInput, Detail: detail, Stderr: stderr, Cause: err}
	}

	path, title := resolveDownloadedPath(result.Stdout)
	if path == "" {
		return nil, apperrors.Input("failed to locate downloaded YouTube audio file after conversion", apperrors.ErrMissingOutput)
	}
	if _, err := os.Stat(path); err != nil {
		// The tool reported success but the file is gone. Treated the same
		// as a download failure.
		return nil, apperrors.Input("failed to locate downloaded YouTube audio file after conversion", err)
	}

	display := title
	if display == "" {
		display = base
	}
	a.logger.Info("youtube audio downloaded", slog.String("path", path), slog.String("title", display))

	return &AudioArtifact{Path: path, DisplayName: display}, nil
}

// resolveDownloadedPath parses the yt-dlp manifest and picks the first
// entry whose path ends in the expected audio extension.
func resolveDownloadedPath(manifest string) (path, title string) {
	var m downloadManifest
	if err := json.Unmarshal([]byte(strings.TrimSpace(manifest)), &m); err != nil {
		return "", ""
	}

	for _, entry := range m.RequestedDownloads {
		if isAudioPath(entry.Filepath) {
			return entry.Filepath, m.Title
		}
	}
	if isAudioPath(m.Filepath) {
		return m.Filepath, m.Title
	}
	return "", m.Title
}

func isAudioPath(p string) bool {
	return strings.HasSuffix(p, ".mp3") || strings.HasSuffix(p, ".wav")
}
