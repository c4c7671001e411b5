package providers

import (
	"strings"
	"testing"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

func TestClassify(t *testing.T) {
	cases := []struct {
		name string
		raw  string
		want types.Provider
	}{
		{"legacy openai", "sk-" + strings.Repeat("a", 48), types.ProviderOpenAI},
		{"project openai", "sk-proj-" + strings.Repeat("Ab1_-", 20), types.ProviderOpenAI},
		{"marker openai", "sk-" + strings.Repeat("a", 20) + "T3BlbkFJ" + strings.Repeat("b", 20), types.ProviderOpenAI},
		{"anthropic api03", "sk-ant-api03-" + strings.Repeat("x", 90), types.ProviderAnthropic},
		{"anthropic short tail", "sk-ant-api03-abc123", types.ProviderAnthropic},
		{"gemini", "AIza" + strings.Repeat("B", 35), types.ProviderGemini},
		{"gemini wrong length", "AIza" + strings.Repeat("B", 20), types.ProviderUnknown},
		{"bare prefix", "sk-", types.ProviderUnknown},
		{"openai too short", "sk-abc", types.ProviderUnknown},
		{"unrelated", "ghp_" + strings.Repeat("c", 36), types.ProviderUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Classify(tc.raw); got != tc.want {
				t.Fatalf("Classify(%q) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

// An Anthropic key also starts with "sk-"; the longer prefix must win
// regardless of registry order.
func TestClassifyPrefixPrecedence(t *testing.T) {
	key := "sk-ant-" + strings.Repeat("z", 60)
	for i := 0; i < 50; i++ {
		if got := Classify(key); got != types.ProviderAnthropic {
			t.Fatalf("iteration %d: got %q, want anthropic", i, got)
		}
	}
}

func TestLookup(t *testing.T) {
	for _, p := range types.AllProviders() {
		info, ok := Lookup(p)
		if !ok {
			t.Fatalf("Lookup(%q) missing", p)
		}
		if info.ProbeURL == "" {
			t.Fatalf("provider %q has no probe URL", p)
		}
		if len(info.Markers) == 0 {
			t.Fatalf("provider %q has no search markers", p)
		}
		if len(info.Patterns) == 0 {
			t.Fatalf("provider %q has no patterns", p)
		}
	}
	if _, ok := Lookup(types.ProviderUnknown); ok {
		t.Fatal("Lookup(unknown) should fail")
	}
}

func TestRegistryOrderStable(t *testing.T) {
	a := All()
	b := All()
	if len(a) != 3 {
		t.Fatalf("expected 3 providers, got %d", len(a))
	}
	for i := range a {
		if a[i].Provider != b[i].Provider {
			t.Fatalf("All() order not stable at %d", i)
		}
	}
	// All() returns a copy; mutating it must not affect the registry.
	a[0].ProbeURL = "mutated"
	if All()[0].ProbeURL == "mutated" {
		t.Fatal("All() exposes the registry backing array")
	}
}
