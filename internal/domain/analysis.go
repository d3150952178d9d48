// Package domain defines core business entities and value objects for cliscope.
//
// This file contains the analysis record produced by the CLI introspection
// engine. The domain layer is independent of infrastructure concerns and
// represents pure business logic and data structures.
package domain

import "strings"

// Framework identifies the CLI-building library a tool appears to use.
type Framework string

const (
	FrameworkCobra    Framework = "cobra"
	FrameworkClick    Framework = "click"
	FrameworkArgparse Framework = "argparse"
	FrameworkUnknown  Framework = "unknown"
)

// SourceMethod identifies which analysis layer produced a record.
type SourceMethod string

const (
	SourceCompletion SourceMethod = "completion"
	SourceFramework  SourceMethod = "framework"
	SourceHelp       SourceMethod = "help"
)

// Capability describes what is known about one subcommand path.
type Capability struct {
	Syntax      string   `json:"syntax,omitempty"`
	Description string   `json:"description,omitempty"`
	Required    []string `json:"required,omitempty"`
	Optional    []string `json:"optional,omitempty"`
	Examples    []string `json:"examples,omitempty"`
}

// AnalysisRecord is the unit of knowledge about one tool. Records are
// immutable once cached; a version change always produces a new record.
type AnalysisRecord struct {
	Tool         string                `json:"tool"`
	Version      string                `json:"version"`
	Framework    Framework             `json:"framework"`
	Capabilities map[string]Capability `json:"capabilities,omitempty"`
	Subcommands  []string              `json:"subcommands,omitempty"`
	Examples     []string              `json:"examples,omitempty"`
	Risks        []string              `json:"risks,omitempty"`
	CachedAt     string                `json:"cached_at"`
	SourceMethod SourceMethod          `json:"source_method"`
}

// CapabilityKey joins a subcommand path into the canonical capabilities map key.
func CapabilityKey(path ...string) string {
	return strings.Join(path, " ")
}

// riskTagRules maps subcommand verbs to coarse risk tags.
var riskTagRules = []struct {
	verbs []string
	tag   string
}{
	{[]string{"deploy", "release", "rollout"}, "deployment"},
	{[]string{"delete", "remove", "destroy", "purge", "prune", "rm", "uninstall"}, "deletion"},
	{[]string{"apply", "update", "upgrade", "patch", "scale", "set"}, "mutation"},
}

// InferRiskTags derives coarse risk tags from subcommand names.
func InferRiskTags(subcommands []string) []string {
	var tags []string
	seen := map[string]bool{}
	for _, rule := range riskTagRules {
		for _, sub := range subcommands {
			lower := strings.ToLower(sub)
			for _, verb := range rule.verbs {
				if lower == verb && !seen[rule.tag] {
					seen[rule.tag] = true
					tags = append(tags, rule.tag)
				}
			}
		}
	}
	return tags
}
