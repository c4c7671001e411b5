package results

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/AdvikSudM12/scan-key/internal/types"
)

// ScanInfo is the summary block recomputed on every append.
type ScanInfo struct {
	Timestamp      string `json:"timestamp"`
	Provider       string `json:"provider"`
	ValidKeysFound int    `json:"valid_keys_found"`
	TotalTested    int    `json:"total_keys_tested"`
	FilesProcessed int    `json:"files_processed"`
	SuccessRate    string `json:"success_rate"`
}

// Ledger is the per-provider durable record of confirmed-live findings.
// Appends never remove or overwrite prior findings.
type Ledger struct {
	ScanInfo  ScanInfo        `json:"scan_info"`
	ValidKeys []types.Finding `json:"valid_keys"`
}

// Store owns the per-provider ledger files under a results directory.
// Appends are serialized per store instance.
type Store struct {
	mu  sync.Mutex
	dir string
}

// NewStore returns a Store writing ledgers under dir, creating it if
// needed.
func NewStore(dir string) (*Store, error) {
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("create results dir: %w", err)
	}
	return &Store{dir: dir}, nil
}

// Path returns the ledger file for a provider.
func (s *Store) Path(p types.Provider) string {
	return filepath.Join(s.dir, fmt.Sprintf("valid_%s_keys.json", p))
}

// Load returns the existing ledger for a provider, or an empty one when
// the file is absent or unreadable.
func (s *Store) Load(p types.Provider) Ledger {
	var l Ledger
	b, err := os.ReadFile(s.Path(p))
	if err != nil {
		return emptyLedger(p)
	}
	if err := json.Unmarshal(b, &l); err != nil {
		return emptyLedger(p)
	}
	if l.ValidKeys == nil {
		l.ValidKeys = []types.Finding{}
	}
	return l
}

func emptyLedger(p types.Provider) Ledger {
	return Ledger{
		ScanInfo: ScanInfo{
			Timestamp:   time.Now().UTC().Format(time.RFC3339),
			Provider:    p.String(),
			SuccessRate: "0%",
		},
		ValidKeys: []types.Finding{},
	}
}

// Append adds a finding to the provider's ledger and recomputes the
// scan_info block in the same write, so readers never observe stale
// counts for the keys present. totalTested and filesProcessed come from
// the scan cache. A raw key already present in the ledger is skipped;
// this only dedupes within the current file state — after a cache reset
// duplicates across runs are accepted by design.
func (s *Store) Append(f types.Finding, totalTested, filesProcessed int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	p := types.ParseProvider(f.Provider)
	l := s.Load(p)
	for _, existing := range l.ValidKeys {
		if existing.Key == f.Key {
			return nil
		}
	}
	l.ValidKeys = append(l.ValidKeys, f)
	l.ScanInfo = ScanInfo{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		Provider:       p.String(),
		ValidKeysFound: len(l.ValidKeys),
		TotalTested:    totalTested,
		FilesProcessed: filesProcessed,
		SuccessRate:    successRate(len(l.ValidKeys), totalTested),
	}

	b, err := json.MarshalIndent(l, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(s.Path(p), b, 0600)
}

func successRate(valid, tested int) string {
	if tested == 0 {
		return "0%"
	}
	return fmt.Sprintf("%.2f%%", float64(valid)/float64(tested)*100)
}
