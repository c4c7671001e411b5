package results

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

func testFinding(key, repo string) types.Finding {
	return types.Finding{
		Key:        key,
		Provider:   types.ProviderOpenAI.String(),
		Repository: repo,
		FilePath:   "config/.env",
		FoundAt:    "2026-08-30T10:00:00Z",
		Status:     "live",
	}
}

func TestAppendAccumulates(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	k1 := "sk-" + strings.Repeat("a", 48)
	k2 := "sk-" + strings.Repeat("b", 48)
	require.NoError(t, store.Append(testFinding(k1, "acme/one"), 5, 2))
	require.NoError(t, store.Append(testFinding(k2, "acme/two"), 9, 4))

	l := store.Load(types.ProviderOpenAI)
	require.Len(t, l.ValidKeys, 2)
	assert.Equal(t, k1, l.ValidKeys[0].Key)
	assert.Equal(t, k2, l.ValidKeys[1].Key)
	assert.Equal(t, 2, l.ScanInfo.ValidKeysFound)
	assert.Equal(t, 9, l.ScanInfo.TotalTested)
	assert.Equal(t, 4, l.ScanInfo.FilesProcessed)
	assert.Equal(t, "22.22%", l.ScanInfo.SuccessRate)
}

func TestAppendSkipsDuplicateKey(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	k := "sk-" + strings.Repeat("c", 48)
	require.NoError(t, store.Append(testFinding(k, "acme/one"), 1, 1))
	require.NoError(t, store.Append(testFinding(k, "acme/other"), 2, 2))

	l := store.Load(types.ProviderOpenAI)
	require.Len(t, l.ValidKeys, 1)
	// The original attribution survives.
	assert.Equal(t, "acme/one", l.ValidKeys[0].Repository)
}

func TestLoadAbsentAndCorrupt(t *testing.T) {
	dir := t.TempDir()
	store, err := NewStore(dir)
	require.NoError(t, err)

	l := store.Load(types.ProviderAnthropic)
	assert.Empty(t, l.ValidKeys)
	assert.Equal(t, "anthropic", l.ScanInfo.Provider)
	assert.Equal(t, "0%", l.ScanInfo.SuccessRate)

	require.NoError(t, os.WriteFile(store.Path(types.ProviderAnthropic), []byte("{not json"), 0600))
	l = store.Load(types.ProviderAnthropic)
	assert.Empty(t, l.ValidKeys)
}

func TestLedgersArePerProvider(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)

	oa := testFinding("sk-"+strings.Repeat("d", 48), "acme/app")
	an := types.Finding{
		Key:      "sk-ant-api03-" + strings.Repeat("e", 20),
		Provider: types.ProviderAnthropic.String(),
		FoundAt:  "2026-08-30T10:00:00Z",
		Status:   "live",
	}
	require.NoError(t, store.Append(oa, 1, 1))
	require.NoError(t, store.Append(an, 2, 1))

	assert.Len(t, store.Load(types.ProviderOpenAI).ValidKeys, 1)
	assert.Len(t, store.Load(types.ProviderAnthropic).ValidKeys, 1)
	assert.Empty(t, store.Load(types.ProviderGemini).ValidKeys)

	assert.Contains(t, store.Path(types.ProviderGemini), "valid_google_gemini_keys.json")
}

func TestLedgerFileShape(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Append(testFinding("sk-"+strings.Repeat("f", 48), "acme/app"), 1, 1))

	b, err := os.ReadFile(store.Path(types.ProviderOpenAI))
	require.NoError(t, err)
	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(b, &raw))
	assert.Contains(t, raw, "scan_info")
	assert.Contains(t, raw, "valid_keys")
}

func TestRenderFindingsMasksKeys(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	key := "sk-" + strings.Repeat("g", 48)
	require.NoError(t, store.Append(testFinding(key, "acme/app"), 1, 1))

	var buf bytes.Buffer
	require.NoError(t, store.RenderFindings(&buf, types.ProviderOpenAI))
	out := buf.String()
	assert.NotContains(t, out, key)
	assert.Contains(t, out, types.MaskKey(key))
	assert.Contains(t, out, "acme/app")
}

func TestRenderSummaryEmpty(t *testing.T) {
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, store.RenderSummary(&buf))
	for _, p := range types.AllProviders() {
		assert.Contains(t, buf.String(), p.String())
	}
}
