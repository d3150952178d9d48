package domain

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestCapabilityKey(t *testing.T) {
	if got := CapabilityKey(); got != "" {
		t.Fatalf("root key should be empty, got %q", got)
	}
	if got := CapabilityKey("deploy"); got != "deploy" {
		t.Fatalf("unexpected key: %q", got)
	}
	if got := CapabilityKey("cluster", "create"); got != "cluster create" {
		t.Fatalf("unexpected nested key: %q", got)
	}
}

func TestInferRiskTags(t *testing.T) {
	cases := []struct {
		name        string
		subcommands []string
		want        []string
	}{
		{"none", []string{"status", "logs"}, nil},
		{"deployment", []string{"deploy", "status"}, []string{"deployment"}},
		{"deletion", []string{"get", "delete"}, []string{"deletion"}},
		{"mutation", []string{"apply", "scale"}, []string{"mutation"}},
		{"case insensitive", []string{"Deploy"}, []string{"deployment"}},
		{"deduplicated", []string{"delete", "rm", "purge"}, []string{"deletion"}},
		{
			"stable order",
			[]string{"set", "rm", "rollout"},
			[]string{"deployment", "deletion", "mutation"},
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := InferRiskTags(tc.subcommands)
			if diff := cmp.Diff(tc.want, got); diff != "" {
				t.Fatalf("tags mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
