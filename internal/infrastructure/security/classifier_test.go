package security

import (
	"os"
	"path/filepath"
	"testing"

	"cliscope/internal/domain"
)

func newDefaultClassifier(t *testing.T) *Classifier {
	t.Helper()
	classifier, err := NewClassifier(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}
	return classifier
}

func TestClassifyRecursiveDelete(t *testing.T) {
	verdict := newDefaultClassifier(t).Classify("rm -rf /")

	if verdict.Level != domain.RiskCritical && verdict.Level != domain.RiskHigh {
		t.Fatalf("expected CRITICAL or HIGH, got %s", verdict.Level)
	}
	if verdict.Reason == "" {
		t.Fatal("expected a non-empty reason")
	}
	if verdict.MatchedPattern == "" {
		t.Fatal("expected a matched pattern identifier")
	}
}

func TestClassifyReadOnlyVerbIsExempt(t *testing.T) {
	verdict := newDefaultClassifier(t).Classify("kubectl get pods")

	if verdict.Level != domain.RiskLow {
		t.Fatalf("expected LOW, got %s", verdict.Level)
	}
	if verdict.MatchedPattern != "" {
		t.Fatalf("expected no matched pattern, got %q", verdict.MatchedPattern)
	}
}

func TestClassifyRawDeviceWrite(t *testing.T) {
	verdict := newDefaultClassifier(t).Classify("dd if=/dev/zero of=/dev/sda")

	if verdict.Level != domain.RiskCritical && verdict.Level != domain.RiskHigh {
		t.Fatalf("expected CRITICAL or HIGH, got %s", verdict.Level)
	}
}

func TestClassifyFilesystemCreation(t *testing.T) {
	verdict := newDefaultClassifier(t).Classify("mkfs.ext4 /dev/sdb1")

	if verdict.MatchedPattern != "filesystem-create" {
		t.Fatalf("expected filesystem-create rule, got %q", verdict.MatchedPattern)
	}
}

func TestClassifyFirstDangerRuleWins(t *testing.T) {
	// matches both recursive-delete and privilege-escalation context;
	// the danger rule determines the verdict
	verdict := newDefaultClassifier(t).Classify("sudo rm -rf /var/lib/data")

	if verdict.MatchedPattern != "recursive-delete" {
		t.Fatalf("expected recursive-delete rule, got %q", verdict.MatchedPattern)
	}
	if verdict.Level != domain.RiskCritical {
		t.Fatalf("expected CRITICAL, got %s", verdict.Level)
	}
}

func TestClassifyContextRulesRaiseLow(t *testing.T) {
	classifier := newDefaultClassifier(t)

	verdict := classifier.Classify("sudo systemctl restart nginx")
	if verdict.Level != domain.RiskMedium {
		t.Fatalf("expected MEDIUM for sudo, got %s", verdict.Level)
	}

	verdict = classifier.Classify("helm upgrade myapp --namespace prod")
	if verdict.Level != domain.RiskHigh {
		t.Fatalf("expected HIGH for production target, got %s", verdict.Level)
	}
}

func TestClassifyNoMatchIsLow(t *testing.T) {
	verdict := newDefaultClassifier(t).Classify("echo hello world")

	if verdict.Level != domain.RiskLow {
		t.Fatalf("expected LOW, got %s", verdict.Level)
	}
	if verdict.MatchedPattern != "" {
		t.Fatalf("expected no matched pattern, got %q", verdict.MatchedPattern)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := newDefaultClassifier(t)
	first := classifier.Classify("dd if=/dev/zero of=/dev/sda")
	second := classifier.Classify("dd if=/dev/zero of=/dev/sda")
	if first != second {
		t.Fatalf("classification not deterministic: %+v vs %+v", first, second)
	}
}

func TestClassifierLoadsRulesFromFile(t *testing.T) {
	rules := `rules:
  danger_patterns:
    - name: forbidden-tool
      pattern: '\bfrobnicate\b'
      level: HIGH
      reason: frobnication is forbidden here
`
	path := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(path, []byte(rules), 0o644); err != nil {
		t.Fatalf("write rules: %v", err)
	}

	classifier, err := NewClassifier(path)
	if err != nil {
		t.Fatalf("NewClassifier error: %v", err)
	}

	verdict := classifier.Classify("frobnicate --all")
	if verdict.Level != domain.RiskHigh || verdict.MatchedPattern != "forbidden-tool" {
		t.Fatalf("custom rule did not fire: %+v", verdict)
	}
}
