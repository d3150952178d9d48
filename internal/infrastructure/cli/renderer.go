package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"cliscope/internal/domain"
)

// RenderRecord prints a human-readable summary of an analysis record.
func RenderRecord(w io.Writer, record domain.AnalysisRecord, cacheHit bool) {
	fmt.Fprintf(w, "Tool:       %s\n", record.Tool)
	fmt.Fprintf(w, "Version:    %s\n", record.Version)
	fmt.Fprintf(w, "Framework:  %s\n", record.Framework)
	fmt.Fprintf(w, "Source:     %s\n", record.SourceMethod)
	if ts := parseCachedAt(record.CachedAt); !ts.IsZero() {
		freshness := humanize.Time(ts)
		if cacheHit {
			freshness += " (cache hit)"
		}
		fmt.Fprintf(w, "Analyzed:   %s\n", freshness)
	}
	if len(record.Risks) > 0 {
		fmt.Fprintf(w, "Risk tags:  %s\n", strings.Join(record.Risks, ", "))
	}

	if len(record.Subcommands) > 0 {
		fmt.Fprintln(w, "\nSubcommands:")
		for _, sub := range record.Subcommands {
			capability := record.Capabilities[domain.CapabilityKey(sub)]
			if capability.Description != "" {
				fmt.Fprintf(w, "  %-18s %s\n", sub, capability.Description)
			} else {
				fmt.Fprintf(w, "  %s\n", sub)
			}
		}
	}

	keys := make([]string, 0, len(record.Capabilities))
	for key, capability := range record.Capabilities {
		if capability.Syntax != "" || len(capability.Required) > 0 || len(capability.Optional) > 0 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		fmt.Fprintln(w, "\nCapabilities:")
		for _, key := range keys {
			capability := record.Capabilities[key]
			name := key
			if name == "" {
				name = "(root)"
			}
			fmt.Fprintf(w, "  %s\n", name)
			if capability.Syntax != "" {
				fmt.Fprintf(w, "    syntax:   %s\n", capability.Syntax)
			}
			if len(capability.Required) > 0 {
				fmt.Fprintf(w, "    required: %s\n", strings.Join(capability.Required, " "))
			}
			if len(capability.Optional) > 0 {
				fmt.Fprintf(w, "    optional: %s\n", strings.Join(capability.Optional, " "))
			}
		}
	}

	if len(record.Examples) > 0 {
		fmt.Fprintln(w, "\nExamples:")
		for _, example := range record.Examples {
			fmt.Fprintf(w, "  %s\n", example)
		}
	}
}

// RenderVerdict prints a risk verdict.
func RenderVerdict(w io.Writer, command string, verdict domain.RiskVerdict) {
	fmt.Fprintf(w, "Command:  %s\n", command)
	fmt.Fprintf(w, "Risk:     %s\n", verdict.Level)
	fmt.Fprintf(w, "Reason:   %s\n", verdict.Reason)
	if verdict.MatchedPattern != "" {
		fmt.Fprintf(w, "Rule:     %s\n", verdict.MatchedPattern)
	}
}

// RenderCacheEntries prints the cached records, one line each.
func RenderCacheEntries(w io.Writer, entries []domain.AnalysisRecord) {
	if len(entries) == 0 {
		fmt.Fprintln(w, "cache is empty")
		return
	}
	for _, record := range entries {
		age := ""
		if ts := parseCachedAt(record.CachedAt); !ts.IsZero() {
			age = humanize.Time(ts)
		}
		fmt.Fprintf(w, "%-16s %-14s %-10s %-12s %s\n",
			record.Tool, record.Version, record.Framework, record.SourceMethod, age)
	}
}

// RenderHistory prints analysis events, newest first.
func RenderHistory(w io.Writer, events []domain.AnalysisEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "no analyses recorded")
		return
	}
	for _, event := range events {
		hit := "miss"
		if event.CacheHit {
			hit = "hit"
		}
		fmt.Fprintf(w, "%s  %-16s %-14s %-10s %-5s %4dms\n",
			event.Timestamp.Format("2006-01-02 15:04:05"),
			event.Tool, event.Version, event.SourceMethod, hit, event.DurationMS)
	}
}

func parseCachedAt(value string) time.Time {
	if value == "" {
		return time.Time{}
	}
	ts, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}
	}
	return ts
}
