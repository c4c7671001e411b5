package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// SessionRecord is one completed scan session, appended to the audit
// log as a single JSONL line.
type SessionRecord struct {
	Timestamp      time.Time      `json:"timestamp"`
	SessionID      string         `json:"session_id"`
	Providers      []string       `json:"providers"`
	QueriesRun     int            `json:"queries_run"`
	FilesProcessed int            `json:"files_processed"`
	KeysTested     int            `json:"keys_tested"`
	LiveKeys       int            `json:"live_keys"`
	ProviderCounts map[string]int `json:"provider_counts,omitempty"`
	Duration       string         `json:"duration"`
	Interrupted    bool           `json:"interrupted,omitempty"`
}

type AuditLog struct {
	logPath string
}

func NewAuditLog(dir string) *AuditLog {
	return &AuditLog{logPath: filepath.Join(dir, "scankey_audit.jsonl")}
}

// LoadHistory returns past sessions, newest first. Malformed lines are
// skipped.
func (a *AuditLog) LoadHistory() ([]SessionRecord, error) {
	f, err := os.Open(a.logPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	var records []SessionRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
	for scanner.Scan() {
		line := bytes.TrimSpace(scanner.Bytes())
		if len(line) == 0 {
			continue
		}
		var record SessionRecord
		if err := json.Unmarshal(line, &record); err != nil {
			continue
		}
		records = append(records, record)
	}
	if err := scanner.Err(); err != nil {
		return records, fmt.Errorf("failed to read audit log: %w", err)
	}

	for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
		records[i], records[j] = records[j], records[i]
	}
	return records, nil
}

func (a *AuditLog) LogSession(record SessionRecord) error {
	if record.SessionID == "" {
		record.SessionID = fmt.Sprintf("session_%d", time.Now().Unix())
	}
	if record.Timestamp.IsZero() {
		record.Timestamp = time.Now().UTC()
	}

	// Owner-only: the log records where live credentials were found.
	f, err := os.OpenFile(a.logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0600)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	encoder := json.NewEncoder(f)
	if err := encoder.Encode(record); err != nil {
		return fmt.Errorf("failed to write audit record: %w", err)
	}
	return nil
}
