package server

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/tonypowl/AutoSheetify/internal/auth"
	apperrors "github.com/tonypowl/AutoSheetify/internal/errors"
	"github.com/tonypowl/AutoSheetify/internal/ingest"
	"github.com/tonypowl/AutoSheetify/internal/pipeline"
)

const maxUploadSize = 100 * 1024 * 1024 // 100MB

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}

// handleTranscribe runs the full pipeline for an uploaded file or a
// YouTube URL and returns the artifact URLs.
func (s *Server) handleTranscribe(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)

	if err := r.ParseMultipartForm(maxUploadSize); err != nil && !strings.Contains(err.Error(), "no multipart") {
		writeDetail(w, http.StatusBadRequest, "File too large. Maximum size is 100MB.")
		return
	}

	var src ingest.Source
	if file, header, err := r.FormFile("file"); err == nil {
		defer file.Close()
		src.Upload = &ingest.Upload{Filename: header.Filename, Content: file}
	} else {
		src.RemoteURL = r.FormValue("youtube_url")
	}

	req := pipeline.Request{
		Source:         src,
		InstrumentHint: r.FormValue("instrument"),
		Caller:         auth.FromContext(r.Context()),
	}

	out, err := s.config.Pipeline.Run(r.Context(), req)
	if err != nil {
		s.logger.Error("pipeline failed", "error", err)
		writeDetail(w, apperrors.HTTPStatus(err), apperrors.Detail(err))
		return
	}

	result := s.config.Publisher.Publish(r, out.NotePath, out.ScorePath, out.DisplayName)
	writeJSON(w, http.StatusOK, result)
}

// historyEntry is one past transcription in the history listing.
type historyEntry struct {
	File      string `json:"file"`
	SheetURL  string `json:"sheet_url"`
	Timestamp string `json:"timestamp"`
}

// handleHistory returns past transcriptions. Placeholder data until real
// history storage lands.
func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	caller := auth.FromContext(r.Context())
	if caller != nil {
		s.logger.Info("fetching history", "user", caller.Email, "user_id", caller.ID)
	}

	writeJSON(w, http.StatusOK, map[string][]historyEntry{
		"history": {
			{File: "song1.mp3", SheetURL: "https://your-storage.com/sheets/song1.pdf", Timestamp: "2025-07-16T12:00:00"},
			{File: "song2.wav", SheetURL: "https://your-storage.com/sheets/song2.pdf", Timestamp: "2025-07-15T09:45:00"},
		},
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeDetail(w http.ResponseWriter, status int, detail string) {
	writeJSON(w, status, map[string]string{"detail": detail})
}
