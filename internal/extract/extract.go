package extract

import (
	"regexp"
	"sort"
	"strings"
	"time"

	"github.com/AdvikSudM12/scan-key/internal/providers"
	"github.com/AdvikSudM12/scan-key/internal/types"
)

// Context patterns pull keys out of the surfaces they leak through:
// env assignments, code assignments, structured data, HTTP headers,
// command lines and URLs. Each has one capture group for the key body.
var contextPatterns = []*regexp.Regexp{
	// NAME=value and NAME="value" env style
	regexp.MustCompile(`(?i)(?:OPENAI|ANTHROPIC|CLAUDE|GOOGLE|GEMINI)?_?API_?KEY[^A-Za-z0-9]{0,3}[=:][^A-Za-z0-9]{0,3}["'` + "`" + `]?(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["'` + "`" + `]?`),
	// quoted literals
	regexp.MustCompile(`["'` + "`" + `](sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["'` + "`" + `]`),
	// code attribute / constructor assignment
	regexp.MustCompile(`(?i)(?:api_?key|apikey|token)\s*[=:]\s*["'` + "`" + `]?(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["'` + "`" + `]?`),
	// JSON/YAML values
	regexp.MustCompile(`(?i)["'](?:api_key|openai_api_key|anthropic_api_key|google_api_key|key|token)["']\s*:\s*["']?(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["']?`),
	// Authorization: Bearer and x-api-key headers
	regexp.MustCompile(`(?i)Authorization[^A-Za-z0-9]{0,3}:[^A-Za-z0-9]{0,3}Bearer\s+(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})`),
	regexp.MustCompile(`(?i)x-api-key[^A-Za-z0-9]{0,3}:[^A-Za-z0-9]{0,3}["']?(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["']?`),
	// command-line flags and URL parameters
	regexp.MustCompile(`(?i)--(?:api-)?key[\s=]+["']?(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})["']?`),
	regexp.MustCompile(`(?i)(?:api_key|key)=(sk-[A-Za-z0-9_-]{6,205}|AIza[A-Za-z0-9_-]{35})`),
}

// Extract scans raw file content and returns deduplicated candidates
// tagged with their provider. Strings that match a marker but fail the
// provider's shape rule (truncated or placeholder keys) are discarded,
// as are strings classifying to no known provider.
func Extract(content, fileID, repository, filePath string) []types.Candidate {
	raws := make(map[string]struct{})

	// Provider patterns first: they anchor exact formats.
	for _, info := range providers.All() {
		for _, re := range info.Patterns {
			for _, m := range re.FindAllString(content, -1) {
				raws[m] = struct{}{}
			}
		}
	}

	// Context patterns catch keys the anchored patterns miss, e.g.
	// short partial-hint Anthropic keys inside assignments.
	for _, re := range contextPatterns {
		for _, groups := range re.FindAllStringSubmatch(content, -1) {
			key := strings.Trim(groups[len(groups)-1], "'\"` \t\r\n;,")
			if key != "" {
				raws[key] = struct{}{}
			}
		}
	}

	now := time.Now().UTC()
	var out []types.Candidate
	for raw := range raws {
		p := providers.Classify(raw)
		if !p.Known() {
			continue
		}
		out = append(out, types.Candidate{
			Raw:          raw,
			Provider:     p,
			FileID:       fileID,
			Repository:   repository,
			FilePath:     filePath,
			DiscoveredAt: now,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Raw < out[j].Raw })
	return out
}
