package types

import "time"

// Provider identifies the AI service that issued a credential.
type Provider string

const (
	ProviderOpenAI    Provider = "openai"
	ProviderAnthropic Provider = "anthropic"
	ProviderGemini    Provider = "google_gemini"
	ProviderUnknown   Provider = "unknown"
)

// Known reports whether the provider is one of the supported services.
// Unknown candidates are dropped before validation.
func (p Provider) Known() bool {
	switch p {
	case ProviderOpenAI, ProviderAnthropic, ProviderGemini:
		return true
	}
	return false
}

func (p Provider) String() string { return string(p) }

// ParseProvider maps a provider name to a Provider, defaulting to unknown.
func ParseProvider(s string) Provider {
	switch s {
	case "openai":
		return ProviderOpenAI
	case "anthropic", "claude":
		return ProviderAnthropic
	case "google_gemini", "gemini", "google":
		return ProviderGemini
	}
	return ProviderUnknown
}

// AllProviders returns the supported providers in a fixed order.
func AllProviders() []Provider {
	return []Provider{ProviderOpenAI, ProviderAnthropic, ProviderGemini}
}

// Candidate is an extracted string suspected of being a provider
// credential, prior to validation.
type Candidate struct {
	Raw          string    `json:"-"`
	Provider     Provider  `json:"provider"`
	FileID       string    `json:"file_id"`
	Repository   string    `json:"repository"`
	FilePath     string    `json:"file_path"`
	RepoPushed   time.Time `json:"repo_pushed,omitempty"`
	DiscoveredAt time.Time `json:"discovered_at"`
}

// Outcome classifies the result of probing a candidate against its
// provider's authentication endpoint.
type Outcome string

const (
	OutcomeLive          Outcome = "live"
	OutcomeDead          Outcome = "dead"
	OutcomeRateLimited   Outcome = "rate_limited"
	OutcomeIndeterminate Outcome = "indeterminate"
)

// Validation is the full result of a probe. Reason is set only for
// indeterminate outcomes.
type Validation struct {
	Outcome Outcome
	Reason  string
}

// Finding is a candidate confirmed live, as persisted in a ledger.
type Finding struct {
	Key        string `json:"key"`
	Provider   string `json:"provider"`
	Repository string `json:"repository"`
	FilePath   string `json:"file_path"`
	FileURL    string `json:"file_url,omitempty"`
	UpdatedAt  string `json:"updated_at,omitempty"`
	FoundAt    string `json:"found_at"`
	Status     string `json:"status"`
}

// MaskKey redacts a credential for logs and terminal output. Short
// strings are fully starred; longer ones keep the first and last four
// characters.
func MaskKey(key string) string {
	if len(key) <= 8 {
		return "********"
	}
	return key[:4] + "***" + key[len(key)-4:]
}
