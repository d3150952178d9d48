package probe

import (
	"context"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"time"

	"cliscope/internal/domain"
	"cliscope/internal/ports"
)

// CompletionProbe is the primary analysis layer. Completion scripts are
// machine-generated, so their subcommand and flag tokens are structurally
// reliable in a way free-form help text is not.
type CompletionProbe struct {
	Runner     ports.CommandRunner
	Timeout    time.Duration
	SearchDirs []string
}

// NewCompletionProbe builds a completion extractor that also searches the
// host's standard completion directories.
func NewCompletionProbe(runner ports.CommandRunner, timeout time.Duration) *CompletionProbe {
	if timeout <= 0 {
		timeout = 3 * time.Second
	}
	return &CompletionProbe{
		Runner:  runner,
		Timeout: timeout,
		SearchDirs: []string{
			"/usr/share/bash-completion/completions",
			"/etc/bash_completion.d",
			"/usr/share/zsh/site-functions",
			"/usr/local/share/zsh/site-functions",
		},
	}
}

// Extract implements ports.CompletionExtractor. Attempts, in order: generated
// completion scripts, the __complete protocol, and installed completion
// files. ok is false when no attempt yields a single subcommand or flag.
func (c *CompletionProbe) Extract(ctx context.Context, tool string) (domain.AnalysisRecord, bool) {
	attempts := []func() (completionData, bool){
		func() (completionData, bool) { return c.fromGeneratedScript(ctx, tool) },
		func() (completionData, bool) { return c.fromCompleteProtocol(ctx, tool) },
		func() (completionData, bool) { return c.fromInstalledFile(tool) },
	}
	for _, attempt := range attempts {
		if data, ok := attempt(); ok {
			return c.buildRecord(tool, data), true
		}
	}
	return domain.AnalysisRecord{}, false
}

// completionData is the raw token harvest from one completion source.
type completionData struct {
	subcommands  []string
	descriptions map[string]string
	flags        []string
	valueFlags   []string
}

func (d completionData) empty() bool {
	return len(d.subcommands) == 0 && len(d.flags) == 0 && len(d.valueFlags) == 0
}

func (c *CompletionProbe) fromGeneratedScript(ctx context.Context, tool string) (completionData, bool) {
	for _, shell := range []string{"zsh", "bash"} {
		result, err := c.Runner.Run(ctx, c.Timeout, tool, "completion", shell)
		if err != nil || strings.TrimSpace(result.Stdout) == "" {
			continue
		}
		data := parseCompletionScript(result.Stdout)
		if !data.empty() {
			return data, true
		}
	}
	return completionData{}, false
}

func (c *CompletionProbe) fromCompleteProtocol(ctx context.Context, tool string) (completionData, bool) {
	result, err := c.Runner.Run(ctx, c.Timeout, tool, "__complete", "")
	if err != nil || strings.TrimSpace(result.Stdout) == "" {
		return completionData{}, false
	}
	data := parseCompleteProtocol(result.Stdout)
	return data, !data.empty()
}

func (c *CompletionProbe) fromInstalledFile(tool string) (completionData, bool) {
	candidates := make([]string, 0, len(c.SearchDirs)*2)
	for _, dir := range c.SearchDirs {
		candidates = append(candidates,
			filepath.Join(dir, tool),
			filepath.Join(dir, "_"+tool),
		)
	}
	for _, path := range candidates {
		raw, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		data := parseCompletionScript(string(raw))
		if !data.empty() {
			return data, true
		}
	}
	return completionData{}, false
}

var (
	// cobra-generated bash scripts register tokens through array appends.
	scriptCommandRe   = regexp.MustCompile(`commands\+=\("([a-zA-Z0-9][a-zA-Z0-9_-]*)"\)`)
	scriptFlagRe      = regexp.MustCompile(`(?:^|\s)flags\+=\("(-{1,2}[a-zA-Z][a-zA-Z0-9_-]*)[="]`)
	scriptValueFlagRe = regexp.MustCompile(`two_word_flags\+=\("(-{1,2}[a-zA-Z][a-zA-Z0-9_-]*)"\)`)
	// zsh _describe arrays carry "name:description" pairs.
	zshPairRe = regexp.MustCompile(`(?m)^\s*"([a-zA-Z0-9][a-zA-Z0-9_-]*):([^"]*)"`)
)

func parseCompletionScript(script string) completionData {
	data := completionData{descriptions: map[string]string{}}
	seenSub := map[string]bool{}
	seenFlag := map[string]bool{}

	for _, match := range scriptCommandRe.FindAllStringSubmatch(script, -1) {
		if !seenSub[match[1]] {
			seenSub[match[1]] = true
			data.subcommands = append(data.subcommands, match[1])
		}
	}
	for _, match := range zshPairRe.FindAllStringSubmatch(script, -1) {
		if !seenSub[match[1]] {
			seenSub[match[1]] = true
			data.subcommands = append(data.subcommands, match[1])
			data.descriptions[match[1]] = strings.TrimSpace(match[2])
		}
	}
	for _, match := range scriptValueFlagRe.FindAllStringSubmatch(script, -1) {
		if !seenFlag[match[1]] {
			seenFlag[match[1]] = true
			data.valueFlags = append(data.valueFlags, match[1])
		}
	}
	for _, match := range scriptFlagRe.FindAllStringSubmatch(script, -1) {
		if !seenFlag[match[1]] {
			seenFlag[match[1]] = true
			data.flags = append(data.flags, match[1])
		}
	}
	return data
}

// parseCompleteProtocol reads the cobra __complete output: one candidate per
// line (name, optionally tab-separated description), terminated by a :N
// shell-completion directive line.
func parseCompleteProtocol(output string) completionData {
	data := completionData{descriptions: map[string]string{}}
	for _, line := range strings.Split(output, "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" || strings.HasPrefix(line, ":") || strings.HasPrefix(line, "_activeHelp_") {
			continue
		}
		name, description, _ := strings.Cut(line, "\t")
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if strings.HasPrefix(name, "-") {
			data.flags = append(data.flags, name)
			continue
		}
		if !validSubcommandToken(name) {
			continue
		}
		data.subcommands = append(data.subcommands, name)
		if description != "" {
			data.descriptions[name] = strings.TrimSpace(description)
		}
	}
	return data
}

var subcommandTokenRe = regexp.MustCompile(`^[a-zA-Z0-9][a-zA-Z0-9_-]*$`)

func validSubcommandToken(token string) bool {
	return subcommandTokenRe.MatchString(token)
}

func (c *CompletionProbe) buildRecord(tool string, data completionData) domain.AnalysisRecord {
	record := domain.AnalysisRecord{
		Tool:         tool,
		Framework:    domain.FrameworkUnknown,
		Capabilities: map[string]domain.Capability{},
		SourceMethod: domain.SourceCompletion,
	}

	// Root-level flags live under the empty capability key. Flags known to
	// take a value carry a trailing "=" so callers can see the arity.
	rootFlags := append([]string{}, data.flags...)
	for _, flag := range data.valueFlags {
		rootFlags = append(rootFlags, flag+"=")
	}
	sort.Strings(rootFlags)
	if len(rootFlags) > 0 {
		record.Capabilities[domain.CapabilityKey()] = domain.Capability{
			Syntax:   tool + " [flags]",
			Optional: rootFlags,
		}
	}

	for _, sub := range data.subcommands {
		record.Subcommands = append(record.Subcommands, sub)
		record.Capabilities[domain.CapabilityKey(sub)] = domain.Capability{
			Syntax:      tool + " " + sub + " [flags]",
			Description: data.descriptions[sub],
		}
		record.Examples = append(record.Examples, tool+" "+sub)
	}
	return record
}

var _ ports.CompletionExtractor = (*CompletionProbe)(nil)
