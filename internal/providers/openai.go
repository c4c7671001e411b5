package providers

import (
	"regexp"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

var (
	// Legacy format: sk- + 48 alphanumerics.
	reOpenAILegacy = regexp.MustCompile(`\bsk-[A-Za-z0-9]{48}\b`)
	// Project keys: sk-proj- + long base62/-_ body.
	reOpenAIProject = regexp.MustCompile(`\bsk-proj-[A-Za-z0-9_-]{95,200}\b`)
	// Catch-all for other sk- variants.
	reOpenAIGeneric = regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{40,200}\b`)
	// Legacy keys embed T3BlbkFJ (base64 "OpenAI") in the middle.
	reOpenAIMarker = regexp.MustCompile(`\bsk-[A-Za-z0-9]{20}T3BlbkFJ[A-Za-z0-9]{20}\b`)
)

var openAI = Info{
	Provider: types.ProviderOpenAI,
	Name:     "OpenAI",
	Prefix:   "sk-",
	Patterns: []*regexp.Regexp{reOpenAIMarker, reOpenAIProject, reOpenAILegacy, reOpenAIGeneric},
	Shape:    openAIShape,
	Markers: []string{
		"OPENAI_API_KEY",
		"openai.api_key",
		"openai_api_key",
		`sk- AND openai`,
		`sk- AND gpt`,
		`"sk-proj-" AND api`,
		"sk- extension:env",
		"sk- filename:.env",
		"sk- path:config",
		"sk- language:python",
		"sk- language:javascript",
	},
	ProbeURL: "https://api.openai.com/v1/models",
	Header:   HeaderBearer,
}

func openAIShape(s string) bool {
	if !hasPrefix(s, "sk-") || hasPrefix(s, "sk-ant-") {
		return false
	}
	body := s[len("sk-"):]
	if !lengthBetween(body, 40, 205) {
		return false
	}
	return isAlphabet(body, base62Dashed)
}
