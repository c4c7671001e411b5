package validate

import (
	"context"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/hashicorp/go-hclog"

	"github.com/AdvikSudM12/scan-key/internal/providers"
	"github.com/AdvikSudM12/scan-key/internal/types"
)

// anthropicVersion is the API version header Anthropic requires on
// every request.
const anthropicVersion = "2023-06-01"

// Prober tests a single candidate against its provider's authenticated
// endpoint and maps the response to an outcome.
type Prober interface {
	Probe(ctx context.Context, p types.Provider, key string) types.Validation
}

// HTTPProber probes the real provider endpoints over resty.
type HTTPProber struct {
	client *resty.Client
	log    hclog.Logger
	// urls overrides registry probe URLs, for tests.
	urls map[types.Provider]string
}

// NewHTTPProber builds a prober with the given request timeout.
func NewHTTPProber(timeout time.Duration, log hclog.Logger) *HTTPProber {
	client := resty.New().SetTimeout(timeout)
	client.SetLogger(newRestyLogger(log))
	return &HTTPProber{client: client, log: log, urls: map[types.Provider]string{}}
}

// SetProbeURL overrides the endpoint for one provider; used by tests.
func (h *HTTPProber) SetProbeURL(p types.Provider, url string) {
	h.urls[p] = url
}

func (h *HTTPProber) probeURL(info providers.Info) string {
	if u, ok := h.urls[info.Provider]; ok {
		return u
	}
	return info.ProbeURL
}

// Probe issues the provider's lightweight authenticated call. Status
// code classes, not bodies, are authoritative: 2xx is live, 401/403 is
// dead, 429 is rate limited, anything else is indeterminate. Transport
// timeouts map to rate limited so the retry policy applies; other
// transport failures are indeterminate.
func (h *HTTPProber) Probe(ctx context.Context, p types.Provider, key string) types.Validation {
	info, ok := providers.Lookup(p)
	if !ok {
		return types.Validation{Outcome: types.OutcomeIndeterminate, Reason: "unknown provider"}
	}

	req := h.client.R().SetContext(ctx)
	url := h.probeURL(info)
	var resp *resty.Response
	var err error

	switch info.Provider {
	case types.ProviderAnthropic:
		// Minimal one-token message: the cheapest call that exercises
		// authentication on this endpoint.
		req.SetHeader("x-api-key", key).
			SetHeader("anthropic-version", anthropicVersion).
			SetHeader("Content-Type", "application/json").
			SetBody(map[string]any{
				"model":      "claude-3-haiku-20240307",
				"max_tokens": 1,
				"messages":   []map[string]string{{"role": "user", "content": "test"}},
			})
		resp, err = req.Post(url)
	case types.ProviderGemini:
		req.SetQueryParam("key", key)
		resp, err = req.Get(url)
	default:
		req.SetHeader("Authorization", "Bearer "+key)
		resp, err = req.Get(url)
	}

	if err != nil {
		if isTimeout(err) {
			return types.Validation{Outcome: types.OutcomeRateLimited, Reason: "timeout"}
		}
		return types.Validation{Outcome: types.OutcomeIndeterminate, Reason: err.Error()}
	}
	return classifyStatus(info.Provider, resp.StatusCode())
}

func classifyStatus(p types.Provider, code int) types.Validation {
	switch {
	case code >= 200 && code < 300:
		return types.Validation{Outcome: types.OutcomeLive}
	case code == 401 || code == 403:
		return types.Validation{Outcome: types.OutcomeDead}
	case code == 400 && p == types.ProviderGemini:
		// Gemini reports an invalid key= parameter as 400.
		return types.Validation{Outcome: types.OutcomeDead}
	case code == 429:
		return types.Validation{Outcome: types.OutcomeRateLimited}
	case code == 503 && p == types.ProviderGemini:
		return types.Validation{Outcome: types.OutcomeRateLimited}
	default:
		return types.Validation{
			Outcome: types.OutcomeIndeterminate,
			Reason:  fmt.Sprintf("unexpected status %d", code),
		}
	}
}

func isTimeout(err error) bool {
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return errors.Is(err, context.DeadlineExceeded)
}
