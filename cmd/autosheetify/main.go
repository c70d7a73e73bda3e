package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tonypowl/AutoSheetify/internal/auth"
	"github.com/tonypowl/AutoSheetify/internal/config"
	"github.com/tonypowl/AutoSheetify/internal/diagnostics"
	"github.com/tonypowl/AutoSheetify/internal/exec"
	"github.com/tonypowl/AutoSheetify/internal/ingest"
	"github.com/tonypowl/AutoSheetify/internal/pipeline"
	"github.com/tonypowl/AutoSheetify/internal/publish"
	"github.com/tonypowl/AutoSheetify/internal/render"
	"github.com/tonypowl/AutoSheetify/internal/server"
	"github.com/tonypowl/AutoSheetify/internal/storage"
	"github.com/tonypowl/AutoSheetify/internal/transcribe"
)

var version = "0.1.0"

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "autosheetify",
	Short: "Turn audio into sheet music",
	Long: `AutoSheetify transcribes audio files or YouTube videos to MIDI
with Basic Pitch and renders sheet-music PDFs with MuseScore.

Pipeline: audio → note detection → MIDI → rendered score`,
	Version: version,
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the transcription API server",
	Long: `Start the HTTP API consumed by the AutoSheetify frontend.

Example:
  autosheetify serve --port 8000`,
	RunE: runServe,
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check external tool availability",
	Long: `Probe the external tools the pipeline depends on (basic-pitch,
yt-dlp, MuseScore) and verify the uploads directory is writable.`,
	RunE: runCheck,
}

var sweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Remove generated artifacts older than a cutoff",
	RunE:  runSweep,
}

var (
	servePort  int
	sweepOlder time.Duration
)

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "listen port (overrides PORT)")
	sweepCmd.Flags().DurationVar(&sweepOlder, "older-than", 24*time.Hour, "remove artifacts older than this")

	rootCmd.AddCommand(serveCmd, checkCmd, sweepCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Port = servePort
	}

	store, err := storage.Open(cfg.UploadsDir)
	if err != nil {
		return err
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, nil))
	runner := exec.NewRunner()

	pipe := pipeline.New(
		ingest.NewAcquirer(store, runner, logger),
		transcribe.New(runner, store.Dir, cfg.ModelPath),
		render.New(runner, logger),
		logger,
	)

	srv := server.New(server.Config{
		Port:      cfg.Port,
		Origins:   cfg.Origins(),
		OnRender:  cfg.OnRender,
		Store:     store,
		Verifier:  auth.NewVerifier(cfg.SupabaseURL, cfg.SupabaseKey),
		Pipeline:  pipe,
		Publisher: publish.New(cfg.PublicBaseURL),
		SweepTTL:  cfg.ArtifactTTL,
	})
	return srv.Run()
}

func runCheck(cmd *cobra.Command, args []string) error {
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	if _, err := storage.Open(uploadsDir); err != nil {
		return err
	}

	items := diagnostics.NewChecker().Run(uploadsDir)
	for _, item := range items {
		fmt.Printf("  [%s] %-12s %s\n", item.Status, item.Name, item.Message)
	}

	if diagnostics.HasFailures(items) {
		return fmt.Errorf("diagnostics failed")
	}
	return nil
}

func runSweep(cmd *cobra.Command, args []string) error {
	uploadsDir := os.Getenv("UPLOADS_DIR")
	if uploadsDir == "" {
		uploadsDir = "uploads"
	}
	store, err := storage.Open(uploadsDir)
	if err != nil {
		return err
	}

	removed, err := store.Sweep(sweepOlder)
	if err != nil {
		return err
	}
	fmt.Printf("removed %d artifacts older than %s\n", removed, sweepOlder)
	return nil
}
