package diagnostics

import (
	"errors"
	"os"
	"testing"
)

func newTestChecker(available map[string]string) *Checker {
	return &Checker{
		lookPath: func(name string) (string, error) {
			if path, ok := available[name]; ok {
				return path, nil
			}
			return "", errors.New("executable file not found in $PATH")
		},
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

func findItem(t *testing.T, items []Item, name string) Item {
	t.Helper()
	for _, item := range items {
		if item.Name == name {
			return item
		}
	}
	t.Fatalf("item %q not in report", name)
	return Item{}
}

func TestRunAllToolsPresent(t *testing.T) {
	c := newTestChecker(map[string]string{
		"basic-pitch": "/usr/bin/basic-pitch",
		"yt-dlp":      "/usr/bin/yt-dlp",
		"musescore3":  "/usr/bin/musescore3",
	})

	items := c.Run(t.TempDir())
	for _, item := range items {
		if item.Status != StatusPass {
			t.Errorf("%s: status = %s, message = %s", item.Name, item.Status, item.Message)
		}
	}
	if HasFailures(items) {
		t.Error("HasFailures = true with everything present")
	}
}

func TestRunMissingBasicPitchFails(t *testing.T) {
	c := newTestChecker(map[string]string{"yt-dlp": "/usr/bin/yt-dlp"})

	items := c.Run(t.TempDir())
	if got := findItem(t, items, "basic-pitch"); got.Status != StatusFail {
		t.Errorf("basic-pitch status = %s, want fail", got.Status)
	}
	if !HasFailures(items) {
		t.Error("HasFailures = false with basic-pitch missing")
	}
}

func TestRunMissingMuseScoreOnlyWarns(t *testing.T) {
	c := newTestChecker(map[string]string{
		"basic-pitch": "/usr/bin/basic-pitch",
		"yt-dlp":      "/usr/bin/yt-dlp",
	})

	items := c.Run(t.TempDir())
	if got := findItem(t, items, "MuseScore"); got.Status != StatusWarn {
		t.Errorf("MuseScore status = %s, want warn (rendering degrades gracefully)", got.Status)
	}
	if HasFailures(items) {
		t.Error("a missing MuseScore must not fail diagnostics")
	}
}

func TestRunMuseScoreAnyCandidate(t *testing.T) {
	c := newTestChecker(map[string]string{
		"basic-pitch": "/usr/bin/basic-pitch",
		"yt-dlp":      "/usr/bin/yt-dlp",
		"mscore":      "/usr/local/bin/mscore",
	})

	items := c.Run(t.TempDir())
	if got := findItem(t, items, "MuseScore"); got.Status != StatusPass {
		t.Errorf("MuseScore status = %s, any candidate should pass", got.Status)
	}
}

func TestRunUnwritableUploadsDir(t *testing.T) {
	c := newTestChecker(map[string]string{"basic-pitch": "/usr/bin/basic-pitch"})

	items := c.Run("/nonexistent/uploads")
	if got := findItem(t, items, "uploads dir"); got.Status != StatusFail {
		t.Errorf("uploads dir status = %s, want fail", got.Status)
	}
}
