package validate

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

func proberFor(t *testing.T, p types.Provider, handler http.HandlerFunc) *HTTPProber {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	h := NewHTTPProber(5*time.Second, hclog.NewNullLogger())
	h.SetProbeURL(p, srv.URL)
	return h
}

func statusHandler(code int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(code)
	}
}

func TestProbeOpenAIRequestShape(t *testing.T) {
	var gotAuth, gotMethod string
	h := proberFor(t, types.ProviderOpenAI, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	v := h.Probe(context.Background(), types.ProviderOpenAI, "sk-testkey")
	assert.Equal(t, types.OutcomeLive, v.Outcome)
	assert.Equal(t, "Bearer sk-testkey", gotAuth)
	assert.Equal(t, http.MethodGet, gotMethod)
}

func TestProbeAnthropicRequestShape(t *testing.T) {
	var gotKey, gotVersion, gotMethod string
	h := proberFor(t, types.ProviderAnthropic, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		gotMethod = r.Method
		w.WriteHeader(http.StatusOK)
	})

	v := h.Probe(context.Background(), types.ProviderAnthropic, "sk-ant-api03-test")
	assert.Equal(t, types.OutcomeLive, v.Outcome)
	assert.Equal(t, "sk-ant-api03-test", gotKey)
	assert.Equal(t, "2023-06-01", gotVersion)
	assert.Equal(t, http.MethodPost, gotMethod)
}

func TestProbeGeminiRequestShape(t *testing.T) {
	var gotKey, gotAuth string
	h := proberFor(t, types.ProviderGemini, func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.URL.Query().Get("key")
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})

	v := h.Probe(context.Background(), types.ProviderGemini, "AIzaTest")
	assert.Equal(t, types.OutcomeLive, v.Outcome)
	assert.Equal(t, "AIzaTest", gotKey)
	// The key travels only in the query string for this provider.
	assert.Empty(t, gotAuth)
}

func TestProbeStatusMapping(t *testing.T) {
	cases := []struct {
		name     string
		provider types.Provider
		code     int
		want     types.Outcome
	}{
		{"openai 200", types.ProviderOpenAI, 200, types.OutcomeLive},
		{"openai 401", types.ProviderOpenAI, 401, types.OutcomeDead},
		{"openai 403", types.ProviderOpenAI, 403, types.OutcomeDead},
		{"openai 429", types.ProviderOpenAI, 429, types.OutcomeRateLimited},
		{"openai 500", types.ProviderOpenAI, 500, types.OutcomeIndeterminate},
		{"anthropic 401", types.ProviderAnthropic, 401, types.OutcomeDead},
		{"anthropic 403", types.ProviderAnthropic, 403, types.OutcomeDead},
		{"anthropic 429", types.ProviderAnthropic, 429, types.OutcomeRateLimited},
		{"gemini 400", types.ProviderGemini, 400, types.OutcomeDead},
		{"gemini 403", types.ProviderGemini, 403, types.OutcomeDead},
		{"gemini 503", types.ProviderGemini, 503, types.OutcomeRateLimited},
		{"openai 400", types.ProviderOpenAI, 400, types.OutcomeIndeterminate},
		{"openai 503", types.ProviderOpenAI, 503, types.OutcomeIndeterminate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			h := proberFor(t, tc.provider, statusHandler(tc.code))
			v := h.Probe(context.Background(), tc.provider, "some-key")
			assert.Equal(t, tc.want, v.Outcome)
			if tc.want == types.OutcomeIndeterminate {
				assert.NotEmpty(t, v.Reason)
			}
		})
	}
}

func TestProbeTimeoutIsRateLimited(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	h := NewHTTPProber(50*time.Millisecond, hclog.NewNullLogger())
	h.SetProbeURL(types.ProviderOpenAI, srv.URL)

	v := h.Probe(context.Background(), types.ProviderOpenAI, "sk-slow")
	assert.Equal(t, types.OutcomeRateLimited, v.Outcome)
}

func TestProbeUnknownProvider(t *testing.T) {
	h := NewHTTPProber(time.Second, hclog.NewNullLogger())
	v := h.Probe(context.Background(), types.ProviderUnknown, "whatever")
	require.Equal(t, types.OutcomeIndeterminate, v.Outcome)
}
