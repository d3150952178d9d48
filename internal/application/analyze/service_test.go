package analyze

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"cliscope/internal/domain"
	"cliscope/internal/infrastructure/cache"
	"cliscope/internal/infrastructure/probe"
	"cliscope/internal/ports"
)

// fakeRunner serves canned responses keyed by the full argv string.
type fakeRunner struct {
	responses map[string]ports.RunResult
	calls     []string
}

func newFakeRunner() *fakeRunner {
	return &fakeRunner{responses: map[string]ports.RunResult{}}
}

func (f *fakeRunner) on(argv string, result ports.RunResult) {
	f.responses[argv] = result
}

func (f *fakeRunner) Run(ctx context.Context, timeout time.Duration, name string, args ...string) (ports.RunResult, error) {
	key := strings.Join(append([]string{name}, args...), " ")
	f.calls = append(f.calls, key)
	if result, ok := f.responses[key]; ok {
		return result, nil
	}
	return ports.RunResult{ExitCode: 127}, errors.New("command failed: " + key)
}

type nopLogger struct{}

func (nopLogger) Debug(string, map[string]interface{})        {}
func (nopLogger) Info(string, map[string]interface{})         {}
func (nopLogger) Warn(string, map[string]interface{})         {}
func (nopLogger) Error(string, error, map[string]interface{}) {}

const clickHelp = `Usage: mytool [OPTIONS] COMMAND [ARGS]...

  A sample deployment tool.

Options:
  --debug  Enable debug output.
  --help   Show this message and exit.

Commands:
  deploy  Deploy the application
  status  Show deployment status
`

const completionScript = `commands+=("deploy")
commands+=("status")
flags+=("--verbose")
`

func newTestService(t *testing.T, runner *fakeRunner) (*Service, ports.CacheStore) {
	t.Helper()
	fetcher := probe.NewHelpFetcher(runner, time.Second)
	completion := probe.NewCompletionProbe(runner, time.Second)
	completion.SearchDirs = nil

	store := cache.NewStore(filepath.Join(t.TempDir(), "analysis.json"))

	service := &Service{
		Version:    probe.NewDetector(runner, fetcher, time.Second),
		Completion: completion,
		Framework:  probe.NewFingerprinter(),
		Help:       probe.NewParser(fetcher, 10),
		Cache:      store,
		Logger:     nopLogger{},
		LookPath:   func(string) (string, error) { return "/usr/bin/mytool", nil },
	}
	return service, store
}

func TestAnalyzeToolNotFound(t *testing.T) {
	service, _ := newTestService(t, newFakeRunner())
	service.LookPath = func(string) (string, error) { return "", errors.New("not in PATH") }

	_, err := service.Analyze(context.Background(), Request{Tool: "ghost"})
	if !errors.Is(err, domain.ErrToolNotFound) {
		t.Fatalf("expected ErrToolNotFound, got %v", err)
	}
}

func TestAnalyzeRejectsUnsafeToolNames(t *testing.T) {
	service, _ := newTestService(t, newFakeRunner())

	for _, name := range []string{"", "   ", "tool; rm -rf /", "$(evil)", "-flag"} {
		_, err := service.Analyze(context.Background(), Request{Tool: name})
		if !errors.Is(err, domain.ErrInvalidToolName) {
			t.Fatalf("expected ErrInvalidToolName for %q, got %v", name, err)
		}
	}
}

func TestAnalyzeCompletionLayerWins(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	// both completion and help extraction would succeed
	runner.on("mytool completion bash", ports.RunResult{Stdout: completionScript})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})

	service, _ := newTestService(t, runner)
	result, err := service.Analyze(context.Background(), Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	if result.Record.SourceMethod != domain.SourceCompletion {
		t.Fatalf("expected completion to win, got %s", result.Record.SourceMethod)
	}
	if len(result.Record.Subcommands) != 2 {
		t.Fatalf("unexpected subcommands: %v", result.Record.Subcommands)
	}
}

func TestAnalyzeClickHelpEndToEnd(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})

	service, _ := newTestService(t, runner)
	result, err := service.Analyze(context.Background(), Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	record := result.Record
	if record.Framework != domain.FrameworkClick {
		t.Fatalf("expected click, got %s", record.Framework)
	}
	if record.SourceMethod != domain.SourceHelp {
		t.Fatalf("expected source help, got %s", record.SourceMethod)
	}
	if len(record.Subcommands) == 0 {
		t.Fatal("expected non-empty subcommands")
	}
	if record.Version != "1.0.0" {
		t.Fatalf("unexpected version: %q", record.Version)
	}
	// deploy is a recognized deployment verb
	if len(record.Risks) == 0 || record.Risks[0] != "deployment" {
		t.Fatalf("unexpected risk tags: %v", record.Risks)
	}
}

func TestAnalyzeIdempotence(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})

	service, _ := newTestService(t, runner)
	ctx := context.Background()

	first, err := service.Analyze(ctx, Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("first Analyze error: %v", err)
	}
	second, err := service.Analyze(ctx, Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("second Analyze error: %v", err)
	}

	if !second.CacheHit {
		t.Fatal("second analysis should be a pure cache read")
	}
	if diff := cmp.Diff(first.Record, second.Record); diff != "" {
		t.Fatalf("records differ (-first +second):\n%s", diff)
	}
}

func TestAnalyzeVersionChangeInvalidatesCache(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})

	service, store := newTestService(t, runner)
	ctx := context.Background()

	first, err := service.Analyze(ctx, Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("first Analyze error: %v", err)
	}

	// the tool gets upgraded
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 2.0.0"})

	second, err := service.Analyze(ctx, Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("second Analyze error: %v", err)
	}

	if second.CacheHit {
		t.Fatal("version change must be a cache miss")
	}
	if second.Record.Version != "2.0.0" {
		t.Fatalf("expected fresh record with new version, got %q", second.Record.Version)
	}
	if first.Record.Version == second.Record.Version {
		t.Fatal("old record must not be returned")
	}
	if _, ok := store.Get("mytool", "1.0.0"); ok {
		t.Fatal("superseded version should no longer be visible")
	}
}

func TestAnalyzeDegradesToMinimalRecord(t *testing.T) {
	// every probe fails: no version, no completion, no help
	service, store := newTestService(t, newFakeRunner())

	result, err := service.Analyze(context.Background(), Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("Analyze should degrade, not fail: %v", err)
	}

	record := result.Record
	if record.Framework != domain.FrameworkUnknown {
		t.Fatalf("expected unknown framework, got %s", record.Framework)
	}
	if record.SourceMethod != domain.SourceHelp {
		t.Fatalf("expected source help, got %s", record.SourceMethod)
	}
	if len(record.Subcommands) != 0 {
		t.Fatalf("expected no subcommands, got %v", record.Subcommands)
	}

	// even the minimal record is written through the cache
	if _, ok := store.Get("mytool", record.Version); !ok {
		t.Fatal("minimal record should be cached")
	}
}

func TestAnalyzeCancelledContextWritesNothing(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})

	service, store := newTestService(t, runner)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := service.Analyze(ctx, Request{Tool: "mytool"})
	if err == nil {
		t.Fatal("expected a context error")
	}
	if len(store.Entries()) != 0 {
		t.Fatal("abandoned analysis must not write a partial record")
	}
}

func TestAnalyzeRefreshBypassesCacheRead(t *testing.T) {
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})

	service, _ := newTestService(t, runner)
	ctx := context.Background()

	if _, err := service.Analyze(ctx, Request{Tool: "mytool"}); err != nil {
		t.Fatalf("first Analyze error: %v", err)
	}
	result, err := service.Analyze(ctx, Request{Tool: "mytool", Refresh: true})
	if err != nil {
		t.Fatalf("refresh Analyze error: %v", err)
	}
	if result.CacheHit {
		t.Fatal("refresh must not read the cache")
	}
}

func TestAnalyzeExpandsSubcommandDetail(t *testing.T) {
	deployHelp := `Deploy the application to a target environment.

Usage: mytool deploy [OPTIONS]

Options:
  --env    Target environment (required)
  --force  Skip confirmation
`
	runner := newFakeRunner()
	runner.on("mytool --version", ports.RunResult{Stdout: "mytool version 1.0.0"})
	runner.on("mytool --help", ports.RunResult{Stdout: clickHelp})
	runner.on("mytool deploy --help", ports.RunResult{Stdout: deployHelp})

	service, _ := newTestService(t, runner)
	result, err := service.Analyze(context.Background(), Request{Tool: "mytool"})
	if err != nil {
		t.Fatalf("Analyze error: %v", err)
	}

	capability := result.Record.Capabilities["deploy"]
	if capability.Syntax != "mytool deploy [OPTIONS]" {
		t.Fatalf("unexpected syntax: %q", capability.Syntax)
	}
	if len(capability.Required) != 1 || capability.Required[0] != "--env" {
		t.Fatalf("unexpected required flags: %v", capability.Required)
	}
}
