// Package publish maps generated artifacts to externally fetchable URLs
// and assembles the transcription response.
package publish

import (
	"net"
	"net/http"
	"path/filepath"
	"strings"
)

// Result is the published outcome of a transcription request.
type Result struct {
	Status           string  `json:"status"`
	SheetURL         *string `json:"sheet_url"`
	MIDIURL          string  `json:"midi_url"`
	OriginalFilename string  `json:"original_filename"`
}

// Publisher builds artifact URLs from a configured base URL, or from the
// inbound request when none is configured.
type Publisher struct {
	baseURL string
}

// New creates a publisher. baseURL may be empty.
func New(baseURL string) *Publisher {
	return &Publisher{baseURL: strings.TrimRight(baseURL, "/")}
}

// Publish assembles the result for a note file and an optional score file.
// scorePath empty means no score was produced and sheet_url stays null.
func (p *Publisher) Publish(r *http.Request, notePath, scorePath, displayName string) Result {
	base := p.BaseURL(r)

	result := Result{
		Status:           "success",
		MIDIURL:          base + "/static/" + filepath.Base(notePath),
		OriginalFilename: displayName,
	}
	if scorePath != "" {
		sheetURL := base + "/static/" + filepath.Base(scorePath)
		result.SheetURL = &sheetURL
	}
	return result
}

// BaseURL returns the configured base URL, or derives scheme, host and port
// from the request. A Render-hosted hostname implies https, and default
// ports are omitted.
func (p *Publisher) BaseURL(r *http.Request) string {
	if p.baseURL != "" {
		return p.baseURL
	}

	hostname := r.Host
	port := ""
	if h, prt, err := net.SplitHostPort(r.Host); err == nil {
		hostname, port = h, prt
	}

	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" || strings.HasSuffix(hostname, ".onrender.com") {
		scheme = "https"
	}

	if port == "" || port == "80" || port == "443" {
		return scheme + "://" + hostname
	}
	return scheme + "://" + hostname + ":" + port
}
