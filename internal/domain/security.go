package domain

// RiskLevel enumerates classifier outcomes.
type RiskLevel string

const (
	RiskLow      RiskLevel = "LOW"
	RiskMedium   RiskLevel = "MEDIUM"
	RiskHigh     RiskLevel = "HIGH"
	RiskCritical RiskLevel = "CRITICAL"
)

// RiskVerdict is the classification of a literal command string.
// It is ephemeral and never persisted.
type RiskVerdict struct {
	Level          RiskLevel `json:"level"`
	Reason         string    `json:"reason"`
	MatchedPattern string    `json:"matched_pattern,omitempty"`
}
