package exec

import (
	"context"
	"strings"
	"testing"
)

func TestRunCapturesOutput(t *testing.T) {
	result, err := NewRunner().Run(context.Background(), nil, "sh", "-c", "echo out; echo err >&2")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if strings.TrimSpace(result.Stdout) != "out" {
		t.Errorf("Stdout = %q", result.Stdout)
	}
	if strings.TrimSpace(result.Stderr) != "err" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
	if result.ExitCode != 0 {
		t.Errorf("ExitCode = %d", result.ExitCode)
	}
}

func TestRunNonZeroExit(t *testing.T) {
	result, err := NewRunner().Run(context.Background(), nil, "sh", "-c", "echo broken >&2; exit 3")
	if err == nil {
		t.Fatal("expected error")
	}
	if result.ExitCode != 3 {
		t.Errorf("ExitCode = %d, want 3", result.ExitCode)
	}
	if strings.TrimSpace(result.Stderr) != "broken" {
		t.Errorf("Stderr = %q", result.Stderr)
	}
}

func TestRunExtraEnvScopedToInvocation(t *testing.T) {
	t.Setenv("QT_QPA_PLATFORM", "")

	result, err := NewRunner().Run(context.Background(),
		[]string{"QT_QPA_PLATFORM=offscreen"},
		"sh", "-c", "printf %s \"$QT_QPA_PLATFORM\"")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stdout != "offscreen" {
		t.Errorf("Stdout = %q, want the override visible to the child", result.Stdout)
	}

	// A following invocation without the override must not see it.
	result, err = NewRunner().Run(context.Background(), nil, "sh", "-c", "printf %s \"$QT_QPA_PLATFORM\"")
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if result.Stdout == "offscreen" {
		t.Error("env override leaked across invocations")
	}
}

func TestRunContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := NewRunner().Run(ctx, nil, "sh", "-c", "sleep 5"); err == nil {
		t.Fatal("expected error for a cancelled context")
	}
}
