// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and
// external adapters (infrastructure). Following the Ports and Adapters
// pattern, these interfaces keep the analysis orchestrator independent of
// process spawning, persistence, and CLI framework concerns.
package ports

import (
	"context"
	"time"

	"cliscope/internal/domain"
)

// ConfigProvider loads the latest configuration from persistent storage.
// Implementations typically read from ~/.cliscope/config.yaml.
type ConfigProvider interface {
	Load(context.Context) (domain.Config, error)
}

// RunResult captures the outcome of one external process invocation.
type RunResult struct {
	Stdout   string
	Stderr   string
	ExitCode int
	TimedOut bool
}

// CommandRunner invokes an external process with a bounded timeout.
// All probing of target tools goes through this port; a timeout or nonzero
// exit is a strategy failure for the caller, never a system failure.
type CommandRunner interface {
	Run(ctx context.Context, timeout time.Duration, name string, args ...string) (RunResult, error)
}

// VersionDetector determines a stable version string for an executable.
// It never fails; the weakest result is the literal "unknown".
type VersionDetector interface {
	Detect(ctx context.Context, tool string) string
}

// CompletionExtractor derives structured subcommand/flag data from shell
// completion output. ok is false when no attempt yields at least one
// subcommand or flag.
type CompletionExtractor interface {
	Extract(ctx context.Context, tool string) (domain.AnalysisRecord, bool)
}

// FrameworkDetector fingerprints the CLI framework family from help text.
// It tags structural conventions only and never extracts capability data.
type FrameworkDetector interface {
	Detect(helpText string) (domain.Framework, int)
}

// HelpParser extracts subcommands, flags and examples from free-form help
// text. It always succeeds structurally, possibly with zero subcommands.
type HelpParser interface {
	Parse(tool string, helpText string, hint domain.Framework) domain.AnalysisRecord
	ParseCapability(helpText string, command string) domain.Capability
	HelpText(ctx context.Context, command ...string) string
}

// CacheStore is the version-gated persistent analysis store.
// Get hits only on exact (tool, version) equality; Put overwrites the
// visible record for a tool and is durable once it returns.
type CacheStore interface {
	Get(tool, version string) (domain.AnalysisRecord, bool)
	Put(record domain.AnalysisRecord) error
	Load() error
	Flush() error
	Entries() []domain.AnalysisRecord
	Clear() error
	Path() string
}

// RiskClassifier scores a literal command string against ordered rule data.
// Classification is a pure, deterministic function of its input.
type RiskClassifier interface {
	Classify(command string) domain.RiskVerdict
}

// HistoryRepository records completed analysis runs.
type HistoryRepository interface {
	Save(event domain.AnalysisEvent) error
	Records(limit int, search string) ([]domain.AnalysisEvent, error)
	Clear() error
	Path() string
}

// Logger provides structured logging abstraction for the application layer.
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
