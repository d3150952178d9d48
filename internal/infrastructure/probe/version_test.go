package probe

import (
	"context"
	"testing"
	"time"

	"cliscope/internal/ports"
)

func newTestDetector(runner *fakeRunner) *Detector {
	fetcher := NewHelpFetcher(runner, time.Second)
	return NewDetector(runner, fetcher, time.Second)
}

func TestDetectVersionFlag(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.2.3\n"})

	detector := newTestDetector(runner)
	if got := detector.Detect(context.Background(), "mytool"); got != "1.2.3" {
		t.Fatalf("expected 1.2.3, got %q", got)
	}
}

func TestDetectFallsThroughStrategies(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool version", ports.RunResult{Stdout: "v2.4.0\n"})

	detector := newTestDetector(runner)
	if got := detector.Detect(context.Background(), "mytool"); got != "2.4.0" {
		t.Fatalf("expected 2.4.0, got %q", got)
	}
	if runner.calls[0] != "mytool --version" || runner.calls[1] != "mytool -v" {
		t.Fatalf("unexpected strategy order: %v", runner.calls)
	}
}

func TestDetectVersionFromStderr(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stderr: "mytool 0.9.1"})

	detector := newTestDetector(runner)
	if got := detector.Detect(context.Background(), "mytool"); got != "0.9.1" {
		t.Fatalf("expected 0.9.1, got %q", got)
	}
}

func TestDetectVersionFromHelpText(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --help", ports.RunResult{Stdout: "mytool v3.1.4 - does things\n\nUsage: mytool [flags]\n"})

	detector := newTestDetector(runner)
	if got := detector.Detect(context.Background(), "mytool"); got != "3.1.4" {
		t.Fatalf("expected 3.1.4, got %q", got)
	}
}

func TestDetectUnknownWhenEverythingFails(t *testing.T) {
	runner := newFakeRunner()

	detector := newTestDetector(runner)
	// no executable of this name exists, so the mtime fallback also fails
	if got := detector.Detect(context.Background(), "definitely-not-a-real-tool-xyz"); got != UnknownVersion {
		t.Fatalf("expected unknown, got %q", got)
	}
}

func TestExtractVersionRejectsYears(t *testing.T) {
	if got := ExtractVersion("Copyright 2023 Acme Corp"); got != "" {
		t.Fatalf("expected empty for copyright year, got %q", got)
	}
	if got := ExtractVersion("release v10.2, (c) 2024"); got != "10.2" {
		t.Fatalf("expected 10.2, got %q", got)
	}
}
