package providers

import (
	"regexp"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

var (
	// Current format: sk-ant-api03- plus a tail. Leaked keys are often
	// partial hints like "sk-ant-api03-R2D...igAA", so the tail minimum
	// is deliberately short.
	reAnthropicAPI03 = regexp.MustCompile(`\bsk-ant-api03-[A-Za-z0-9_-]{4,200}\b`)
	// Generic sk-ant- keys.
	reAnthropicGeneric = regexp.MustCompile(`\bsk-ant-[A-Za-z0-9_-]{20,200}\b`)
)

var anthropic = Info{
	Provider: types.ProviderAnthropic,
	Name:     "Anthropic (Claude)",
	Prefix:   "sk-ant-",
	Patterns: []*regexp.Regexp{reAnthropicAPI03, reAnthropicGeneric},
	Shape:    anthropicShape,
	Markers: []string{
		"ANTHROPIC_API_KEY",
		"CLAUDE_API_KEY",
		"claude_api_key",
		"anthropic_key",
		"sk-ant",
		`anthropic AND api_key`,
		`claude AND api_key`,
		"sk-ant- extension:env",
		"sk-ant- filename:.env",
		"sk-ant- path:config",
		"sk-ant- language:python",
		"ANTHROPIC_API_KEY extension:env",
	},
	ProbeURL: "https://api.anthropic.com/v1/messages",
	Header:   HeaderAPIKey,
}

func anthropicShape(s string) bool {
	if !hasPrefix(s, "sk-ant-") {
		return false
	}
	body := s[len("sk-ant-"):]
	if !lengthBetween(body, 6, 213) {
		return false
	}
	return isAlphabet(body, base62Dashed)
}
