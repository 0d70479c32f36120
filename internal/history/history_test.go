package history

import (
	"bufio"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

func newTestLedger(t *testing.T) (*Ledger, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.json")
	return NewLedger(path, shared.NewLogger(io.Discard)), path
}

func TestLedger(t *testing.T) {
	t.Run("records carry readable duplicates", func(t *testing.T) {
		ledger, _ := newTestLedger(t)

		scheduled := time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC)
		ledger.RecordUpload("run-1", "a.mp4", "primary", "vid-1", &scheduled,
			5*1024*1024, 10*time.Second, 512*1024, nil)

		entries := ledger.Entries()
		if len(entries) != 1 {
			t.Fatalf("expected 1 entry, got %d", len(entries))
		}

		entry := entries[0]
		if entry.Status != "success" {
			t.Errorf("expected status success, got %s", entry.Status)
		}
		if entry.FileSizeHuman != "5.00 MB" {
			t.Errorf("expected 5.00 MB, got %s", entry.FileSizeHuman)
		}
		if entry.UploadHuman != "10.0s" {
			t.Errorf("expected 10.0s, got %s", entry.UploadHuman)
		}
		if entry.SpeedHuman != "512.00 KB/s" {
			t.Errorf("expected 512.00 KB/s, got %s", entry.SpeedHuman)
		}
	})

	t.Run("failures keep the error message", func(t *testing.T) {
		ledger, _ := newTestLedger(t)

		ledger.RecordUpload("run-1", "a.mp4", "primary", "", nil, 100, 0, 0, errors.New("quota exhausted"))

		entry := ledger.Entries()[0]
		if entry.Status != "failed" {
			t.Errorf("expected status failed, got %s", entry.Status)
		}
		if entry.ErrorMessage != "quota exhausted" {
			t.Errorf("expected error message, got %s", entry.ErrorMessage)
		}
	})

	t.Run("summary entry", func(t *testing.T) {
		ledger, _ := newTestLedger(t)

		ledger.RecordSummary("run-1", 3, 1, 2, 90*time.Second)

		entry := ledger.Entries()[0]
		if entry.Type != "execution_summary" {
			t.Errorf("expected execution_summary, got %s", entry.Type)
		}
		if entry.Uploaded != 3 || entry.Failed != 1 || entry.Skipped != 2 {
			t.Errorf("unexpected counts: %+v", entry)
		}
	})

	t.Run("persists across reloads", func(t *testing.T) {
		ledger, path := newTestLedger(t)

		ledger.RecordUpload("run-1", "a.mp4", "primary", "v1", nil, 100, time.Second, 100, nil)
		ledger.RecordSummary("run-1", 1, 0, 0, time.Second)

		reloaded := NewLedger(path, shared.NewLogger(io.Discard))
		if reloaded.Len() != 2 {
			t.Errorf("expected 2 entries after reload, got %d", reloaded.Len())
		}
	})

	t.Run("corrupt file starts empty", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "history.json")
		if err := os.WriteFile(path, []byte("[broken"), 0644); err != nil {
			t.Fatalf("failed to write file: %v", err)
		}

		ledger := NewLedger(path, shared.NewLogger(io.Discard))
		if ledger.Len() != 0 {
			t.Errorf("expected empty ledger, got %d entries", ledger.Len())
		}
	})
}

func TestBackupSnapshot(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("appends jsonl records", func(t *testing.T) {
		base := t.TempDir()
		backups := filepath.Join(base, "backups")
		source := filepath.Join(base, "tracking.json")
		if err := os.WriteFile(source, []byte(`{"a.mp4": {}}`), 0644); err != nil {
			t.Fatalf("failed to write source: %v", err)
		}

		BackupSnapshot(backups, []string{source}, logger)
		BackupSnapshot(backups, []string{source}, logger)

		f, err := os.Open(filepath.Join(backups, "tracking.jsonl"))
		if err != nil {
			t.Fatalf("backup file missing: %v", err)
		}
		defer f.Close()

		lines := 0
		scanner := bufio.NewScanner(f)
		for scanner.Scan() {
			lines++
			var record struct {
				Timestamp time.Time       `json:"timestamp"`
				Data      json.RawMessage `json:"data"`
			}
			if err := json.Unmarshal(scanner.Bytes(), &record); err != nil {
				t.Fatalf("invalid backup line: %v", err)
			}
			if record.Timestamp.IsZero() {
				t.Error("expected a timestamp on every record")
			}
		}
		if lines != 2 {
			t.Errorf("expected 2 backup lines, got %d", lines)
		}
	})

	t.Run("missing sources are skipped", func(t *testing.T) {
		base := t.TempDir()
		backups := filepath.Join(base, "backups")

		BackupSnapshot(backups, []string{filepath.Join(base, "nope.json")}, logger)

		if _, err := os.Stat(filepath.Join(backups, "nope.jsonl")); !os.IsNotExist(err) {
			t.Error("missing source must not produce a backup file")
		}
	})

	t.Run("invalid json skipped", func(t *testing.T) {
		base := t.TempDir()
		backups := filepath.Join(base, "backups")
		source := filepath.Join(base, "bad.json")
		if err := os.WriteFile(source, []byte("{broken"), 0644); err != nil {
			t.Fatalf("failed to write source: %v", err)
		}

		BackupSnapshot(backups, []string{source}, logger)

		if _, err := os.Stat(filepath.Join(backups, "bad.jsonl")); !os.IsNotExist(err) {
			t.Error("invalid source must not produce a backup file")
		}
	})
}
