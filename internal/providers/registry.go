package providers

import (
	"regexp"
	"sort"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

// HeaderStyle selects how a probe request carries the credential.
type HeaderStyle int

const (
	// HeaderBearer sends "Authorization: Bearer <key>".
	HeaderBearer HeaderStyle = iota
	// HeaderAPIKey sends "x-api-key: <key>".
	HeaderAPIKey
	// HeaderQueryParam appends "?key=<key>" to the probe URL.
	HeaderQueryParam
)

// Info describes one provider: how its keys look in the wild, which
// search-index vocabulary surfaces them, and how to probe them.
type Info struct {
	Provider types.Provider
	Name     string

	// Prefix is the canonical key prefix used for classification.
	Prefix string
	// Patterns match full keys, most specific first.
	Patterns []*regexp.Regexp
	// Shape rejects truncated or placeholder matches that slipped
	// through a pattern (exact length/charset rule).
	Shape func(string) bool

	// Markers is the search-query vocabulary for this provider:
	// environment-variable names and code idioms.
	Markers []string

	// ProbeURL is the lightweight authenticated endpoint used to test
	// key liveness.
	ProbeURL string
	Header   HeaderStyle
}

var registry = []Info{openAI, anthropic, gemini}

// All returns the registered providers in a fixed order.
func All() []Info {
	out := make([]Info, len(registry))
	copy(out, registry)
	return out
}

// Lookup returns the registry entry for a provider.
func Lookup(p types.Provider) (Info, bool) {
	for _, info := range registry {
		if info.Provider == p {
			return info, true
		}
	}
	return Info{}, false
}

// Classify maps a raw string to exactly one provider. Prefixes are
// tried longest first so "sk-ant-" wins over "sk-"; a string matching
// no provider classifies as unknown.
func Classify(raw string) types.Provider {
	ordered := make([]Info, len(registry))
	copy(ordered, registry)
	sort.SliceStable(ordered, func(i, j int) bool {
		return len(ordered[i].Prefix) > len(ordered[j].Prefix)
	})
	for _, info := range ordered {
		if len(raw) < len(info.Prefix) || raw[:len(info.Prefix)] != info.Prefix {
			continue
		}
		if info.Shape(raw) {
			return info.Provider
		}
	}
	return types.ProviderUnknown
}
