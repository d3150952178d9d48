// Package security implements the command-risk classifier.
package security

import (
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"cliscope/internal/domain"
	"cliscope/internal/ports"
)

// Classifier scores a literal command string against ordered rule data.
// Rules are data, not code: the matcher is generic and new patterns are
// added by editing the rules file, never this package.
type Classifier struct {
	danger  []compiledRule
	context []compiledRule
}

type compiledRule struct {
	re   *regexp.Regexp
	rule Rule
}

// Rule describes one regex-based classification rule.
type Rule struct {
	Name    string `yaml:"name"`
	Pattern string `yaml:"pattern"`
	Level   string `yaml:"level"`
	Reason  string `yaml:"reason"`
}

// RulesFile is the YAML schema root for ~/.cliscope/rules.yaml.
type RulesFile struct {
	Rules struct {
		DangerPatterns  []Rule `yaml:"danger_patterns"`
		ContextPatterns []Rule `yaml:"context_patterns"`
	} `yaml:"rules"`
}

// NewClassifier loads rules from disk (or compiled-in defaults when the file
// is missing or names no patterns).
func NewClassifier(path string) (*Classifier, error) {
	rules, err := loadRules(path)
	if err != nil {
		return nil, err
	}

	danger, err := compileRules(rules.Rules.DangerPatterns)
	if err != nil {
		return nil, err
	}
	context, err := compileRules(rules.Rules.ContextPatterns)
	if err != nil {
		return nil, err
	}
	return &Classifier{danger: danger, context: context}, nil
}

// readOnlyVerbs exempt inspection commands from pattern matching, so that
// e.g. "kubectl get pods" never warns just because a dangerous token
// co-occurs elsewhere in a rule.
var readOnlyVerbs = map[string]bool{
	"list": true, "get": true, "describe": true, "status": true,
	"show": true, "view": true, "inspect": true, "ls": true,
	"cat": true, "info": true, "explain": true, "diff": true,
}

// Classify implements ports.RiskClassifier. Pure function of the input
// string: first matching danger rule wins; context rules only ever raise a
// LOW verdict; no match at all is LOW with no matched pattern.
func (c *Classifier) Classify(command string) domain.RiskVerdict {
	verdict := domain.RiskVerdict{
		Level:  domain.RiskLow,
		Reason: "no dangerous pattern matched",
	}

	for _, token := range strings.Fields(command) {
		if readOnlyVerbs[strings.ToLower(token)] {
			verdict.Reason = "read-only operation"
			return verdict
		}
	}

	for _, rule := range c.danger {
		if rule.re.MatchString(command) {
			return domain.RiskVerdict{
				Level:          parseLevel(rule.rule.Level),
				Reason:         rule.rule.Reason,
				MatchedPattern: rule.rule.Name,
			}
		}
	}

	for _, rule := range c.context {
		if rule.re.MatchString(command) {
			level := parseLevel(rule.rule.Level)
			if moreSevere(level, verdict.Level) {
				verdict.Level = level
				verdict.Reason = rule.rule.Reason
				verdict.MatchedPattern = rule.rule.Name
			}
		}
	}
	return verdict
}

func compileRules(rules []Rule) ([]compiledRule, error) {
	var compiled []compiledRule
	for _, rule := range rules {
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, compiledRule{re: re, rule: rule})
	}
	return compiled, nil
}

func loadRules(path string) (RulesFile, error) {
	var rules RulesFile
	data, err := os.ReadFile(path)
	if err != nil {
		rules.Rules.DangerPatterns = defaultDangerPatterns()
		rules.Rules.ContextPatterns = defaultContextPatterns()
		return rules, nil
	}
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return RulesFile{}, err
	}
	if len(rules.Rules.DangerPatterns) == 0 {
		rules.Rules.DangerPatterns = defaultDangerPatterns()
	}
	if len(rules.Rules.ContextPatterns) == 0 {
		rules.Rules.ContextPatterns = defaultContextPatterns()
	}
	return rules, nil
}

func parseLevel(value string) domain.RiskLevel {
	switch strings.ToUpper(value) {
	case "MEDIUM":
		return domain.RiskMedium
	case "HIGH":
		return domain.RiskHigh
	case "CRITICAL":
		return domain.RiskCritical
	default:
		return domain.RiskLow
	}
}

func moreSevere(next, current domain.RiskLevel) bool {
	order := map[domain.RiskLevel]int{
		domain.RiskLow:      0,
		domain.RiskMedium:   1,
		domain.RiskHigh:     2,
		domain.RiskCritical: 3,
	}
	return order[next] > order[current]
}

func defaultDangerPatterns() []Rule {
	return []Rule{
		{Name: "recursive-delete", Pattern: `\brm\s+(-\w*\s+)*-\w*[rR]\w*[fF]|\brm\s+(-\w*\s+)*-\w*[fF]\w*[rR]`, Level: "CRITICAL", Reason: "recursive force delete"},
		{Name: "raw-device-write", Pattern: `\bdd\s+.*\bof=/dev/`, Level: "CRITICAL", Reason: "raw write to a block device"},
		{Name: "filesystem-create", Pattern: `\bmkfs(\.\w+)?\b`, Level: "HIGH", Reason: "creating a filesystem destroys existing data"},
		{Name: "disk-partition", Pattern: `\b(fdisk|parted|sgdisk)\b`, Level: "HIGH", Reason: "disk partitioning"},
		{Name: "device-redirect", Pattern: `>\s*/dev/(sd[a-z]|nvme|hd[a-z])`, Level: "CRITICAL", Reason: "redirecting output onto a block device"},
		{Name: "firewall-flush", Pattern: `\biptables\s+.*-F`, Level: "HIGH", Reason: "flushing firewall rules"},
		{Name: "fork-bomb", Pattern: `:\(\)\s*\{\s*:\|:&\s*\}\s*;:`, Level: "CRITICAL", Reason: "fork bomb"},
		{Name: "curl-pipe-sudo", Pattern: `\b(curl|wget)\b.*\|\s*sudo\b`, Level: "HIGH", Reason: "piping a remote script into sudo"},
		{Name: "world-writable", Pattern: `\bchmod\s+(-\w+\s+)*777\b`, Level: "MEDIUM", Reason: "world-writable permissions"},
	}
}

func defaultContextPatterns() []Rule {
	return []Rule{
		{Name: "production-target", Pattern: `(?i)\bprod(uction)?\b`, Level: "HIGH", Reason: "targets a production environment"},
		{Name: "privilege-escalation", Pattern: `\b(sudo|su)\b`, Level: "MEDIUM", Reason: "requires elevated privileges"},
		{Name: "network-operation", Pattern: `\b(curl|wget|ssh|scp)\b`, Level: "MEDIUM", Reason: "network operation"},
	}
}

var _ ports.RiskClassifier = (*Classifier)(nil)
