// Package probe implements the analysis layers that inspect a target tool:
// version detection, completion extraction, framework fingerprinting, and
// help-text parsing. Every external invocation goes through the
// CommandRunner port under a short timeout, and every probe failure is a
// strategy failure, not an error.
package probe

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"regexp"
	"strconv"
	"time"

	"cliscope/internal/ports"
)

// UnknownVersion is returned when every detection strategy fails.
const UnknownVersion = "unknown"

// Detector determines a stable version string for a tool, used to gate the
// analysis cache. An incorrect version causes false cache hits against stale
// data, so ambiguous matches are rejected in favor of "unknown".
type Detector struct {
	Runner  ports.CommandRunner
	Help    *HelpFetcher
	Timeout time.Duration
}

// NewDetector builds a version detector with the given probe timeout.
func NewDetector(runner ports.CommandRunner, help *HelpFetcher, timeout time.Duration) *Detector {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	return &Detector{Runner: runner, Help: help, Timeout: timeout}
}

// Detect implements ports.VersionDetector. First strategy to produce a
// version-like token wins; the chain never fails.
func (d *Detector) Detect(ctx context.Context, tool string) string {
	strategies := []func() string{
		func() string { return d.tryFlag(ctx, tool, "--version") },
		func() string { return d.tryFlag(ctx, tool, "-v") },
		func() string { return d.tryFlag(ctx, tool, "version") },
		func() string { return d.tryHelpText(ctx, tool) },
		func() string { return modTimeVersion(tool) },
	}
	for _, strategy := range strategies {
		if v := strategy(); v != "" {
			return v
		}
	}
	return UnknownVersion
}

func (d *Detector) tryFlag(ctx context.Context, tool, flag string) string {
	result, err := d.Runner.Run(ctx, d.Timeout, tool, flag)
	if err != nil && result.Stderr == "" {
		return ""
	}
	if v := ExtractVersion(result.Stdout); v != "" {
		return v
	}
	return ExtractVersion(result.Stderr)
}

func (d *Detector) tryHelpText(ctx context.Context, tool string) string {
	if d.Help == nil {
		return ""
	}
	return ExtractVersion(d.Help.Fetch(ctx, tool))
}

// modTimeVersion uses the executable's modification time as a weak version
// proxy when the tool exposes no version surface at all.
func modTimeVersion(tool string) string {
	path, err := exec.LookPath(tool)
	if err != nil {
		return ""
	}
	info, err := os.Stat(path)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("mtime-%d", info.ModTime().Unix())
}

var versionPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)version\s+v?([0-9]+\.[0-9]+(?:\.[0-9]+)*)`),
	regexp.MustCompile(`\bv?([0-9]+\.[0-9]+\.[0-9]+)\b`),
	regexp.MustCompile(`\bv?([0-9]+\.[0-9]+)\b`),
	regexp.MustCompile(`(?i)version:\s*([^\s]+)`),
}

// ExtractVersion pulls a version-like token out of free text. Bare years
// (copyright lines) are rejected rather than risk a plausible-but-wrong
// version.
func ExtractVersion(text string) string {
	if text == "" {
		return ""
	}
	for _, pattern := range versionPatterns {
		match := pattern.FindStringSubmatch(text)
		if match == nil {
			continue
		}
		candidate := match[1]
		if looksLikeYear(candidate) {
			continue
		}
		return candidate
	}
	return ""
}

func looksLikeYear(token string) bool {
	if len(token) != 4 {
		return false
	}
	n, err := strconv.Atoi(token)
	if err != nil {
		return false
	}
	return n >= 1900 && n <= 2100
}

var _ ports.VersionDetector = (*Detector)(nil)
