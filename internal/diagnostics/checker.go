// Package diagnostics validates the external tools and paths the pipeline
// depends on.
package diagnostics

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Status of a single diagnostic item.
type Status string

const (
	StatusPass Status = "pass"
	StatusWarn Status = "warn"
	StatusFail Status = "fail"
)

// Item is one diagnostic result.
type Item struct {
	Name    string
	Status  Status
	Message string
}

// Checker probes external tools and required filesystem paths.
type Checker struct {
	lookPath   func(string) (string, error)
	createTemp func(string, string) (*os.File, error)
	remove     func(string) error
}

// NewChecker builds a checker using real OS dependencies.
func NewChecker() *Checker {
	return &Checker{
		lookPath:   exec.LookPath,
		createTemp: os.CreateTemp,
		remove:     os.Remove,
	}
}

// Run executes all checks. MuseScore and yt-dlp are warnings because the
// pipeline degrades without them; basic-pitch and a writable uploads dir
// are required.
func (c *Checker) Run(uploadsDir string) []Item {
	return []Item{
		c.checkTool("basic-pitch", StatusFail),
		c.checkTool("yt-dlp", StatusWarn),
		c.checkAnyTool("MuseScore", []string{"musescore3", "musescore", "mscore"}),
		c.checkUploadsDir(uploadsDir),
	}
}

// HasFailures reports whether any item failed outright.
func HasFailures(items []Item) bool {
	for _, item := range items {
		if item.Status == StatusFail {
			return true
		}
	}
	return false
}

func (c *Checker) checkTool(name string, missing Status) Item {
	path, err := c.lookPath(name)
	if err != nil {
		return Item{Name: name, Status: missing, Message: "not found in PATH"}
	}
	return Item{Name: name, Status: StatusPass, Message: "found at " + path}
}

// checkAnyTool passes when any of the candidate commands resolves.
func (c *Checker) checkAnyTool(name string, candidates []string) Item {
	for _, candidate := range candidates {
		if path, err := c.lookPath(candidate); err == nil {
			return Item{Name: name, Status: StatusPass, Message: "found at " + path}
		}
	}
	return Item{
		Name:    name,
		Status:  StatusWarn,
		Message: fmt.Sprintf("none of %s found; PDF generation will be skipped", strings.Join(candidates, ", ")),
	}
}

func (c *Checker) checkUploadsDir(dir string) Item {
	f, err := c.createTemp(dir, ".diag-*")
	if err != nil {
		return Item{Name: "uploads dir", Status: StatusFail, Message: fmt.Sprintf("not writable: %v", err)}
	}
	name := f.Name()
	f.Close()
	c.remove(name)
	return Item{Name: "uploads dir", Status: StatusPass, Message: "writable at " + filepath.Clean(dir)}
}
