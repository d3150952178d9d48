package probe

import (
	"regexp"

	"cliscope/internal/domain"
	"cliscope/internal/ports"
)

// frameworkFingerprints maps each CLI framework family to the structural
// patterns its generated help text carries.
var frameworkFingerprints = []struct {
	framework domain.Framework
	patterns  []*regexp.Regexp
}{
	{domain.FrameworkCobra, []*regexp.Regexp{
		regexp.MustCompile(`Available\s+Commands:`),
		regexp.MustCompile(`Use\s+"[^"]+"\s+for\s+more\s+information\s+about\s+a\s+command`),
		regexp.MustCompile(`Global\s+Flags:`),
		regexp.MustCompile(`Additional\s+help\s+topics:`),
	}},
	{domain.FrameworkClick, []*regexp.Regexp{
		regexp.MustCompile(`Usage:\s+\S+\s+\[OPTIONS\]`),
		regexp.MustCompile(`(?m)^Options:`),
		regexp.MustCompile(`(?m)^Commands:`),
		regexp.MustCompile(`Show\s+this\s+message\s+and\s+exit`),
	}},
	{domain.FrameworkArgparse, []*regexp.Regexp{
		regexp.MustCompile(`(?m)^usage:\s+\S+`),
		regexp.MustCompile(`positional\s+arguments:`),
		regexp.MustCompile(`(?:optional\s+arguments|options):`),
		regexp.MustCompile(`show\s+this\s+help\s+message\s+and\s+exit`),
	}},
}

// minFingerprintScore is how many patterns must match before a framework
// tag is considered confident.
const minFingerprintScore = 2

// Fingerprinter tags which CLI framework produced a help text. The tag only
// informs help parsing; it is never a capability data source of its own.
type Fingerprinter struct{}

// NewFingerprinter builds a framework detector.
func NewFingerprinter() *Fingerprinter {
	return &Fingerprinter{}
}

// Detect implements ports.FrameworkDetector. The confidence is the number
// of fingerprint patterns that matched for the winning framework.
func (f *Fingerprinter) Detect(helpText string) (domain.Framework, int) {
	best := domain.FrameworkUnknown
	bestScore := 0
	for _, candidate := range frameworkFingerprints {
		score := 0
		for _, pattern := range candidate.patterns {
			if pattern.MatchString(helpText) {
				score++
			}
		}
		if score > bestScore {
			bestScore = score
			best = candidate.framework
		}
	}
	if bestScore < minFingerprintScore {
		return domain.FrameworkUnknown, bestScore
	}
	return best, bestScore
}

var _ ports.FrameworkDetector = (*Fingerprinter)(nil)
