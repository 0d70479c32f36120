// Package history persists the append-only upload ledger and run summaries,
// and snapshots state files into the backups directory before each run.
package history

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/charmbracelet/log"
)

// Entry is one record in the upload history ledger. Numeric measurements carry
// a human-readable duplicate so the raw JSON file is inspectable without
// tooling.
type Entry struct {
	Type          string     `json:"type,omitempty"`
	Timestamp     time.Time  `json:"timestamp"`
	RunID         string     `json:"run_id"`
	Filename      string     `json:"filename,omitempty"`
	Platform      string     `json:"platform,omitempty"`
	VideoID       string     `json:"video_id,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	FileSize      int64      `json:"file_size,omitempty"`
	FileSizeHuman string     `json:"file_size_readable,omitempty"`
	UploadSeconds float64    `json:"upload_time,omitempty"`
	UploadHuman   string     `json:"upload_time_readable,omitempty"`
	Speed         float64    `json:"speed,omitempty"`
	SpeedHuman    string     `json:"speed_readable,omitempty"`
	Status        string     `json:"status"`
	ErrorMessage  string     `json:"error_message,omitempty"`

	// Summary fields, present only on execution_summary entries.
	Uploaded int     `json:"uploaded,omitempty"`
	Failed   int     `json:"failed,omitempty"`
	Skipped  int     `json:"skipped,omitempty"`
	Duration float64 `json:"duration,omitempty"`
}

// Ledger stores history entries as a JSON array at a fixed path.
type Ledger struct {
	path   string
	logger *log.Logger

	mu      sync.Mutex
	entries []Entry
	now     func() time.Time
}

// NewLedger loads the ledger at path, starting empty when the file is absent
// or unreadable.
func NewLedger(path string, logger *log.Logger) *Ledger {
	l := &Ledger{path: path, logger: logger, now: time.Now}
	l.load()
	return l
}

func (l *Ledger) load() {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if !os.IsNotExist(err) {
			l.logger.Warn("failed to read history, starting empty", "path", l.path, "error", err)
		}
		return
	}
	if err := json.Unmarshal(data, &l.entries); err != nil {
		l.logger.Warn("failed to parse history, starting empty", "path", l.path, "error", err)
		l.entries = nil
	}
}

func (l *Ledger) save() {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		l.logger.Warn("failed to encode history", "error", err)
		return
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".history-*.json")
	if err != nil {
		l.logger.Warn("failed to write history", "error", err)
		return
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		l.logger.Warn("failed to write history", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		l.logger.Warn("failed to write history", "error", err)
		return
	}
	if err := os.Rename(tmp.Name(), l.path); err != nil {
		os.Remove(tmp.Name())
		l.logger.Warn("failed to write history", "error", err)
	}
}

// RecordUpload appends an upload outcome for one file on one platform.
func (l *Ledger) RecordUpload(runID, filename, platform, videoID string, scheduled *time.Time, size int64, uploadTime time.Duration, speed float64, uploadErr error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := Entry{
		Timestamp:     l.now(),
		RunID:         runID,
		Filename:      filename,
		Platform:      platform,
		VideoID:       videoID,
		ScheduledTime: scheduled,
		FileSize:      size,
		FileSizeHuman: shared.FormatByteSize(size),
		UploadSeconds: uploadTime.Seconds(),
		UploadHuman:   shared.FormatDuration(uploadTime),
		Speed:         speed,
		SpeedHuman:    fmt.Sprintf("%s/s", shared.FormatByteSize(int64(speed))),
		Status:        "success",
	}
	if uploadErr != nil {
		entry.Status = "failed"
		entry.ErrorMessage = uploadErr.Error()
	}

	l.entries = append(l.entries, entry)
	l.save()
}

// RecordSummary appends an execution_summary entry closing out a run.
func (l *Ledger) RecordSummary(runID string, uploaded, failed, skipped int, elapsed time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.entries = append(l.entries, Entry{
		Type:        "execution_summary",
		Timestamp:   l.now(),
		RunID:       runID,
		Status:      "complete",
		Uploaded:    uploaded,
		Failed:      failed,
		Skipped:     skipped,
		Duration:    elapsed.Seconds(),
		UploadHuman: shared.FormatDuration(elapsed),
	})
	l.save()
}

// Entries returns a copy of all recorded entries, oldest first.
func (l *Ledger) Entries() []Entry {
	l.mu.Lock()
	defer l.mu.Unlock()

	out := make([]Entry, len(l.entries))
	copy(out, l.entries)
	return out
}

// Len returns the number of recorded entries.
func (l *Ledger) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
