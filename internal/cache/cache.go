package cache

import (
	"encoding/json"
	"os"
	"sync"
	"time"
)

// fileData is the on-disk cache shape. Only fingerprints are stored,
// never raw keys, so a leaked cache file discloses no secrets.
type fileData struct {
	ProcessedFiles     []string  `json:"processed_files"`
	TestedFingerprints []string  `json:"tested_fingerprints"`
	FilesCount         int       `json:"files_count"`
	KeysCount          int       `json:"keys_count"`
	LastUpdated        time.Time `json:"last_updated"`
}

// Stats summarizes cache contents for the CLI.
type Stats struct {
	ProcessedFiles     int
	TestedFingerprints int
	FileExists         bool
	FileSize           int64
}

// ScanCache is the durable record of already-processed file identifiers
// and already-tested credential fingerprints. All methods are safe for
// concurrent use; check-then-act operations are atomic under the mutex.
type ScanCache struct {
	mu        sync.Mutex
	path      string
	processed map[string]struct{}
	tested    map[string]struct{}
	dirty     bool
}

// Load reads the cache file at path, tolerating a missing, empty or
// truncated file by starting empty.
func Load(path string) *ScanCache {
	c := &ScanCache{
		path:      path,
		processed: map[string]struct{}{},
		tested:    map[string]struct{}{},
	}
	b, err := os.ReadFile(path)
	if err != nil || len(b) == 0 {
		return c
	}
	var data fileData
	if err := json.Unmarshal(b, &data); err != nil {
		return c
	}
	for _, f := range data.ProcessedFiles {
		c.processed[f] = struct{}{}
	}
	for _, fp := range data.TestedFingerprints {
		c.tested[fp] = struct{}{}
	}
	return c
}

// FileSeen reports whether the file identifier was already processed.
func (c *ScanCache) FileSeen(fileID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.processed[fileID]
	return ok
}

// MarkFileProcessed records a processed file identifier and returns
// false if it was already present.
func (c *ScanCache) MarkFileProcessed(fileID string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.processed[fileID]; ok {
		return false
	}
	c.processed[fileID] = struct{}{}
	c.dirty = true
	return true
}

// SeenOrMarkTested atomically checks whether a fingerprint was tested
// and records it if not. Returns true if it had been tested before, so
// callers never validate the same fingerprint twice.
func (c *ScanCache) SeenOrMarkTested(fingerprint string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.tested[fingerprint]; ok {
		return true
	}
	c.tested[fingerprint] = struct{}{}
	c.dirty = true
	return false
}

// TestedCount returns the number of tested fingerprints.
func (c *ScanCache) TestedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.tested)
}

// ProcessedCount returns the number of processed file identifiers.
func (c *ScanCache) ProcessedCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.processed)
}

// Dirty reports whether there are unflushed mutations.
func (c *ScanCache) Dirty() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.dirty
}

// Flush persists the cache if dirty. A clean cache is a no-op.
func (c *ScanCache) Flush() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.dirty {
		return nil
	}
	data := fileData{
		ProcessedFiles:     make([]string, 0, len(c.processed)),
		TestedFingerprints: make([]string, 0, len(c.tested)),
		FilesCount:         len(c.processed),
		KeysCount:          len(c.tested),
		LastUpdated:        time.Now().UTC(),
	}
	for f := range c.processed {
		data.ProcessedFiles = append(data.ProcessedFiles, f)
	}
	for fp := range c.tested {
		data.TestedFingerprints = append(data.TestedFingerprints, fp)
	}
	b, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.path, b, 0600); err != nil {
		return err
	}
	c.dirty = false
	return nil
}

// Clear removes the cache file and reinitializes to empty. This is the
// only way previously-processed files become reprocessable.
func (c *ScanCache) Clear() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if err := os.Remove(c.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	c.processed = map[string]struct{}{}
	c.tested = map[string]struct{}{}
	c.dirty = false
	return nil
}

// Stats returns cache counters and file info for the CLI.
func (c *ScanCache) Stats() Stats {
	c.mu.Lock()
	defer c.mu.Unlock()
	s := Stats{
		ProcessedFiles:     len(c.processed),
		TestedFingerprints: len(c.tested),
	}
	if st, err := os.Stat(c.path); err == nil {
		s.FileExists = true
		s.FileSize = st.Size()
	}
	return s
}
