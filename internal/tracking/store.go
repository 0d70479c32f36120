package tracking

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/charmbracelet/log"
)

// Store is the durable mapping of filename to per-platform delivery status.
//
// All mutations go through MarkUploaded, which persists the full state after every
// change. Load failures are non-fatal: a corrupted or missing tracking file yields an
// empty state, and the next successful upload repopulates the record.
type Store struct {
	path    string
	sentDir string
	logger  *log.Logger

	mu      sync.Mutex
	records map[string]models.TrackingRecord
	now     func() time.Time
}

// NewStore creates a Store backed by the JSON file at path, relocating delivered
// files into sentDir. State is loaded eagerly; parse failures log a warning and
// start from an empty state.
func NewStore(path, sentDir string, logger *log.Logger) *Store {
	s := &Store{
		path:    path,
		sentDir: sentDir,
		logger:  logger,
		now:     time.Now,
	}
	s.records = s.load()
	return s
}

// load reads persisted state from disk. It never fails: absence or corruption
// returns an empty map.
func (s *Store) load() map[string]models.TrackingRecord {
	records := map[string]models.TrackingRecord{}

	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			s.logger.Warn("could not read tracking file, starting empty", "path", s.path, "error", err)
		}
		return records
	}

	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("tracking file is corrupted, starting empty", "path", s.path, "error", err)
		return map[string]models.TrackingRecord{}
	}

	return records
}

// save persists the full state atomically (write to temp file, then rename) so an
// interrupted write never truncates the tracking file. Failures are warnings, not
// fatal to the run.
func (s *Store) save() {
	data, err := json.MarshalIndent(s.records, "", "  ")
	if err != nil {
		s.logger.Warn("could not serialize tracking data", "error", err)
		return
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0755); err != nil {
		s.logger.Warn("could not create tracking directory", "error", err)
		return
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), ".tracking-*")
	if err != nil {
		s.logger.Warn("could not save tracking data", "error", err)
		return
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		s.logger.Warn("could not save tracking data", "error", err)
		return
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("could not save tracking data", "error", err)
		return
	}

	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		s.logger.Warn("could not save tracking data", "error", err)
	}
}

// MarkUploaded records the outcome of one attempt for (filename, platform).
//
// A nil uploadErr marks the platform as uploaded; otherwise the error message is
// stored and uploaded is set false. The whole status object for that platform is
// replaced and the state is persisted immediately.
func (s *Store) MarkUploaded(filename, platform, videoID string, scheduledTime *time.Time, uploadErr error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[filename]
	if !ok {
		record = models.TrackingRecord{}
		s.records[filename] = record
	}

	now := s.now()
	status := models.PlatformStatus{
		Uploaded:      uploadErr == nil,
		UploadedAt:    &now,
		VideoID:       videoID,
		ScheduledTime: scheduledTime,
	}
	if uploadErr != nil {
		status.Error = uploadErr.Error()
	}
	record[platform] = status

	s.save()
}

// Status returns the tracked record for filename, or an empty record if none exists.
func (s *Store) Status(filename string) models.TrackingRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := models.TrackingRecord{}
	for platform, status := range s.records[filename] {
		record[platform] = status
	}
	return record
}

// IsUploadedToAll reports whether filename has been uploaded to every platform in
// platforms. It is vacuously true for an empty platform set.
func (s *Store) IsUploadedToAll(filename string, platforms []string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isUploadedToAllLocked(filename, platforms)
}

func (s *Store) isUploadedToAllLocked(filename string, platforms []string) bool {
	record := s.records[filename]
	for _, platform := range platforms {
		if !record[platform].Uploaded {
			return false
		}
	}
	return true
}

// ShouldMoveToSent reports whether filename may be relocated to the sent directory.
// Relocation is permitted iff every requested platform has a successful upload.
func (s *Store) ShouldMoveToSent(filename string, platforms []string) bool {
	return s.IsUploadedToAll(filename, platforms)
}

// PendingVideos scans dir for files whose extension is in extensions and which are
// not yet uploaded to every platform in platforms, sorted by filename so the same
// directory contents always yield the same order.
func (s *Store) PendingVideos(dir string, platforms, extensions []string) ([]models.VideoAsset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to scan clips directory: %w", err)
	}

	allowed := map[string]bool{}
	for _, ext := range extensions {
		allowed[strings.ToLower(ext)] = true
	}

	var pending []models.VideoAsset
	for _, entry := range entries {
		if entry.IsDir() || !allowed[strings.ToLower(filepath.Ext(entry.Name()))] {
			continue
		}
		if s.IsUploadedToAll(entry.Name(), platforms) {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			s.logger.Warn("could not stat video file, skipping", "file", entry.Name(), "error", err)
			continue
		}

		pending = append(pending, models.VideoAsset{
			Path:      filepath.Join(dir, entry.Name()),
			Filename:  entry.Name(),
			SizeBytes: info.Size(),
		})
	}

	sort.Slice(pending, func(i, j int) bool { return pending[i].Filename < pending[j].Filename })
	return pending, nil
}

// Relocate moves the file at path into the sent directory. Failures are logged as
// warnings and leave the file in place; tracking state is never touched, so a later
// run retries the move.
func (s *Store) Relocate(path string) {
	if err := os.MkdirAll(s.sentDir, 0755); err != nil {
		s.logger.Warn("could not create sent directory", "error", err)
		return
	}

	dest := filepath.Join(s.sentDir, filepath.Base(path))
	if err := moveFile(path, dest); err != nil {
		s.logger.Warn("could not move file to sent directory", "file", filepath.Base(path), "error", err)
		return
	}
	s.logger.Info("moved to sent directory", "file", filepath.Base(path))
}

// SweepDelivered relocates every file in dir that is tracked as delivered to all
// platforms but still present, picking up files completed by an earlier run whose
// move failed or that were finished out-of-band. The check is cheap and idempotent.
func (s *Store) SweepDelivered(dir string, platforms []string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		if s.IsUploadedToAll(entry.Name(), platforms) {
			s.Relocate(filepath.Join(dir, entry.Name()))
		}
	}
}

// Summary aggregates upload counts per platform across every tracked file.
func (s *Store) Summary() map[string]int {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{}
	for _, record := range s.records {
		for platform, status := range record {
			if status.Uploaded {
				counts[platform]++
			}
		}
	}
	return counts
}

// Len returns the number of tracked files.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// moveFile renames src to dest, falling back to copy-and-remove when the rename
// crosses filesystems.
func moveFile(src, dest string) error {
	if err := os.Rename(src, dest); err == nil {
		return nil
	}

	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dest)
	if err != nil {
		return err
	}

	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		os.Remove(dest)
		return err
	}
	if err := out.Close(); err != nil {
		os.Remove(dest)
		return err
	}

	return os.Remove(src)
}
