package probe

import (
	"context"
	"regexp"
	"strings"
	"time"

	"cliscope/internal/domain"
	"cliscope/internal/ports"
)

// HelpFetcher acquires help text for a tool or subcommand path, trying the
// common help surfaces in order and accepting stderr when a tool prints its
// help there.
type HelpFetcher struct {
	Runner  ports.CommandRunner
	Timeout time.Duration
}

// NewHelpFetcher builds a help fetcher with the given probe timeout.
func NewHelpFetcher(runner ports.CommandRunner, timeout time.Duration) *HelpFetcher {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HelpFetcher{Runner: runner, Timeout: timeout}
}

// Fetch returns the first usable help text for the given command path, or ""
// when every variation fails. For a bare tool the man page is the last
// resort.
func (f *HelpFetcher) Fetch(ctx context.Context, command ...string) string {
	if len(command) == 0 {
		return ""
	}
	variations := [][]string{
		append(append([]string{}, command...), "--help"),
		append(append([]string{}, command...), "-h"),
		append(append([]string{}, command...), "help"),
	}
	if len(command) == 1 {
		variations = append(variations, []string{"man", command[0]})
	}

	for _, argv := range variations {
		result, err := f.Runner.Run(ctx, f.Timeout, argv[0], argv[1:]...)
		if err == nil && strings.TrimSpace(result.Stdout) != "" {
			return strings.TrimRight(filterLocaleNoise(result.Stdout), "\n")
		}
		if stderr := strings.TrimSpace(result.Stderr); stderr != "" && !strings.HasPrefix(stderr, "Unknown locale") {
			return strings.TrimRight(filterLocaleNoise(result.Stderr), "\n")
		}
	}
	return ""
}

func filterLocaleNoise(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, line := range lines {
		if strings.HasPrefix(line, "Unknown locale") {
			continue
		}
		kept = append(kept, line)
	}
	return strings.Join(kept, "\n")
}

// Parser is the layer of last resort: regex and section heuristics over
// free-form help text. It always produces a structurally valid record, which
// may hold zero subcommands for unparseable output.
type Parser struct {
	Fetcher        *HelpFetcher
	MaxSubcommands int
}

// NewParser builds a help parser.
func NewParser(fetcher *HelpFetcher, maxSubcommands int) *Parser {
	if maxSubcommands <= 0 {
		maxSubcommands = 10
	}
	return &Parser{Fetcher: fetcher, MaxSubcommands: maxSubcommands}
}

// HelpText implements ports.HelpParser.
func (p *Parser) HelpText(ctx context.Context, command ...string) string {
	return p.Fetcher.Fetch(ctx, command...)
}

// Parse implements ports.HelpParser. The framework hint selects the section
// header patterns; capability data still comes from the text itself.
func (p *Parser) Parse(tool string, helpText string, hint domain.Framework) domain.AnalysisRecord {
	record := domain.AnalysisRecord{
		Tool:         tool,
		Framework:    hint,
		Capabilities: map[string]domain.Capability{},
		SourceMethod: domain.SourceHelp,
	}
	if hint == "" {
		record.Framework = domain.FrameworkUnknown
	}

	subs := p.extractSubcommands(helpText, hint)
	for _, sub := range subs {
		record.Subcommands = append(record.Subcommands, sub.name)
		record.Capabilities[domain.CapabilityKey(sub.name)] = domain.Capability{
			Description: sub.description,
		}
	}

	// Top-level flags and usage live under the root capability key.
	required, optional := extractFlags(helpText)
	syntax := extractUsage(helpText)
	if len(required) > 0 || len(optional) > 0 || syntax != "" {
		record.Capabilities[domain.CapabilityKey()] = domain.Capability{
			Syntax:   syntax,
			Required: required,
			Optional: optional,
		}
	}

	record.Examples = append(record.Examples, extractExampleLines(helpText, tool)...)
	record.Examples = append(record.Examples, frameworkExamples(tool, hint, record.Subcommands)...)
	if len(record.Examples) == 0 {
		record.Examples = []string{tool + " --help"}
	}
	return record
}

// ParseCapability extracts per-subcommand detail from that subcommand's own
// help text: usage syntax, description, required/optional flag split, and
// example invocations.
func (p *Parser) ParseCapability(helpText string, command string) domain.Capability {
	capability := domain.Capability{}
	lines := strings.Split(helpText, "\n")

	for _, line := range lines[:min(len(lines), 10)] {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" || strings.HasPrefix(trimmed, "Usage:") || strings.HasPrefix(trimmed, command) {
			continue
		}
		capability.Description = trimmed
		break
	}

	capability.Syntax = extractUsage(helpText)

	required, optional := extractFlags(helpText)
	capability.Required = required
	capability.Optional = optional
	capability.Examples = extractExampleLines(helpText, firstWord(command))
	return capability
}

type subcommandEntry struct {
	name        string
	description string
}

var (
	commandsHeaderRe = regexp.MustCompile(`(?i)^(?:available\s+)?commands\s*:`)
	sectionBreakRe   = regexp.MustCompile(`(?i)^(?:global\s+)?(?:flags|options)\s*:`)
	commandLineRe    = regexp.MustCompile(`^\s+([a-zA-Z0-9][a-zA-Z0-9_-]*)\s*(.*)$`)
	argparseChoiceRe = regexp.MustCompile(`^\s*\{([a-zA-Z0-9_,-]+)\}`)
	flagsHeaderRe    = regexp.MustCompile(`(?i)^(?:global\s+)?(flags|options|optional\s+arguments)\s*:`)
	flagLineRe       = regexp.MustCompile(`^\s+(-{1,2}[a-zA-Z][a-zA-Z0-9_-]*)`)
	examplesHeaderRe = regexp.MustCompile(`(?i)^examples?\s*:`)
)

func (p *Parser) extractSubcommands(helpText string, hint domain.Framework) []subcommandEntry {
	var entries []subcommandEntry
	seen := map[string]bool{}
	inSection := false

	headerRe := commandsHeaderRe
	if hint == domain.FrameworkArgparse {
		headerRe = regexp.MustCompile(`(?i)^positional\s+arguments\s*:`)
	}

	for _, original := range strings.Split(helpText, "\n") {
		line := strings.TrimSpace(original)

		if headerRe.MatchString(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if line == "" || sectionBreakRe.MatchString(line) {
			inSection = false
			continue
		}

		// argparse lists choices as a brace group under positional arguments.
		if hint == domain.FrameworkArgparse {
			if match := argparseChoiceRe.FindStringSubmatch(original); match != nil {
				for _, name := range strings.Split(match[1], ",") {
					entries = p.appendSubcommand(entries, seen, name, "")
				}
				continue
			}
		}

		if !strings.HasPrefix(original, " ") {
			inSection = false
			continue
		}
		if match := commandLineRe.FindStringSubmatch(original); match != nil {
			entries = p.appendSubcommand(entries, seen, match[1], strings.TrimSpace(match[2]))
		}
	}
	return entries
}

func (p *Parser) appendSubcommand(entries []subcommandEntry, seen map[string]bool, name, description string) []subcommandEntry {
	name = strings.TrimSpace(name)
	lower := strings.ToLower(name)
	if name == "" || lower == "help" || lower == "version" || seen[lower] {
		return entries
	}
	if len(entries) >= p.MaxSubcommands {
		return entries
	}
	seen[lower] = true
	return append(entries, subcommandEntry{name: name, description: description})
}

func extractUsage(helpText string) string {
	for _, line := range strings.Split(helpText, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "Usage:") || strings.HasPrefix(trimmed, "usage:") {
			if usage := strings.TrimSpace(trimmed[len("Usage:"):]); usage != "" {
				return usage
			}
		}
	}
	return ""
}

func extractFlags(helpText string) (required, optional []string) {
	inSection := false
	for _, original := range strings.Split(helpText, "\n") {
		line := strings.TrimSpace(original)
		if flagsHeaderRe.MatchString(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if line == "" || (!strings.HasPrefix(original, " ") && strings.Contains(line, ":")) {
			inSection = false
			continue
		}
		match := flagLineRe.FindStringSubmatch(original)
		if match == nil {
			continue
		}
		if strings.Contains(strings.ToLower(line), "required") {
			required = append(required, match[1])
		} else {
			optional = append(optional, match[1])
		}
	}
	return required, optional
}

func extractExampleLines(helpText string, tool string) []string {
	var examples []string
	inSection := false
	for _, original := range strings.Split(helpText, "\n") {
		line := strings.TrimSpace(original)
		if examplesHeaderRe.MatchString(line) {
			inSection = true
			continue
		}
		if !inSection {
			continue
		}
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, tool+" ") || strings.HasPrefix(line, "$ "+tool+" ") {
			examples = append(examples, strings.TrimPrefix(line, "$ "))
		} else if !strings.HasPrefix(original, " ") {
			inSection = false
		}
	}
	return examples
}

// frameworkExamples generates idiomatic starter invocations for frameworks
// with a predictable shape.
func frameworkExamples(tool string, hint domain.Framework, subcommands []string) []string {
	var examples []string
	limit := min(len(subcommands), 3)
	switch hint {
	case domain.FrameworkCobra:
		for _, sub := range subcommands[:limit] {
			examples = append(examples, tool+" "+sub+" --help")
		}
	case domain.FrameworkClick:
		for _, sub := range subcommands[:limit] {
			examples = append(examples, tool+" "+sub)
		}
	}
	return examples
}

func firstWord(command string) string {
	fields := strings.Fields(command)
	if len(fields) == 0 {
		return command
	}
	return fields[0]
}

var _ ports.HelpParser = (*Parser)(nil)
