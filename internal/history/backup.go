package history

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
)

type backupRecord struct {
	Timestamp time.Time       `json:"timestamp"`
	Data      json.RawMessage `json:"data"`
}

// BackupSnapshot appends a timestamped copy of each source file to a JSONL
// file of the same name under backupDir. Missing sources are skipped and
// failures only warn; a broken backup never blocks a run.
func BackupSnapshot(backupDir string, sources []string, logger *log.Logger) {
	if err := os.MkdirAll(backupDir, 0755); err != nil {
		logger.Warn("failed to create backup directory", "path", backupDir, "error", err)
		return
	}

	for _, src := range sources {
		data, err := os.ReadFile(src)
		if err != nil {
			if !os.IsNotExist(err) {
				logger.Warn("failed to read file for backup", "path", src, "error", err)
			}
			continue
		}
		if !json.Valid(data) {
			logger.Warn("skipping backup of invalid JSON file", "path", src)
			continue
		}

		record, err := json.Marshal(backupRecord{Timestamp: time.Now(), Data: data})
		if err != nil {
			logger.Warn("failed to encode backup record", "path", src, "error", err)
			continue
		}

		dest := filepath.Join(backupDir, filepath.Base(src)+"l")
		f, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			logger.Warn("failed to open backup file", "path", dest, "error", err)
			continue
		}
		if _, err := f.Write(append(record, '\n')); err != nil {
			logger.Warn("failed to append backup record", "path", dest, "error", err)
		}
		f.Close()
	}
}
