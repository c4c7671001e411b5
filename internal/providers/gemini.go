package providers

import (
	"regexp"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

// Google API keys are AIza plus exactly 35 chars (39 total).
var reGemini = regexp.MustCompile(`\bAIza[A-Za-z0-9_-]{35}\b`)

var gemini = Info{
	Provider: types.ProviderGemini,
	Name:     "Google Gemini",
	Prefix:   "AIza",
	Patterns: []*regexp.Regexp{reGemini},
	Shape:    geminiShape,
	Markers: []string{
		"GOOGLE_API_KEY",
		"GEMINI_API_KEY",
		"gemini_api_key",
		"google_ai_key",
		"AIza",
		`google AND api_key AND gemini`,
		`generativelanguage AND key`,
		"AIza extension:env",
		"AIza filename:.env",
		"AIza path:config",
		"AIza language:python",
		"GOOGLE_API_KEY extension:env",
	},
	ProbeURL: "https://generativelanguage.googleapis.com/v1/models",
	Header:   HeaderQueryParam,
}

func geminiShape(s string) bool {
	if len(s) != 39 || !hasPrefix(s, "AIza") {
		return false
	}
	return isAlphabet(s[4:], base62Dashed)
}
