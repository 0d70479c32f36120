package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"golang.org/x/time/rate"
)

// ChunkSize is the fixed byte-range size used by the transfer protocol.
const ChunkSize = 5 * 1024 * 1024

// ProgressFunc receives cumulative transfer progress after every chunk.
type ProgressFunc func(sent, total int64)

// Service defines the interface for platforms that accept scheduled video uploads.
type Service interface {
	// Name returns the platform identifier used in tracking records (e.g., "primary").
	Name() string

	// Authenticate loads and validates the platform credential. It never opens a
	// browser: the engine only consumes an already-issued token. Must be called
	// before Upload.
	Authenticate(ctx context.Context) error

	// ValidateSchedule checks publishAt against the platform's scheduling window.
	// It is pure and runs before any network call; a violation wraps
	// [shared.ErrScheduleWindow].
	ValidateSchedule(publishAt, now time.Time) error

	// Upload transfers one video with its scheduling metadata, reporting chunk
	// progress through progress (may be nil). Failures are classified: quota
	// exhaustion wraps [shared.ErrQuotaExceeded], credential rejection wraps
	// [shared.ErrAuthFailed], everything else wraps [shared.ErrUploadFailed].
	Upload(ctx context.Context, req models.UploadRequest, progress ProgressFunc) (*models.UploadResult, error)
}

// scheduleWindow caps how far in advance a platform accepts a publish time.
type scheduleWindow struct {
	maxDaysAhead int           // 0 means no ceiling
	minLead      time.Duration // below this the platform publishes immediately
}

// validate checks publishAt against the window. A zero window accepts everything.
func (w scheduleWindow) validate(publishAt, now time.Time) error {
	if publishAt.Before(now) {
		return fmt.Errorf("%w: cannot schedule videos in the past", shared.ErrScheduleWindow)
	}
	if w.maxDaysAhead > 0 && publishAt.Sub(now) > time.Duration(w.maxDaysAhead)*24*time.Hour {
		return fmt.Errorf("%w: platform only allows scheduling up to %d days in advance", shared.ErrScheduleWindow, w.maxDaysAhead)
	}
	return nil
}

// shouldSchedule reports whether publishAt is far enough ahead to carry a schedule
// timestamp; otherwise the platform is asked to publish immediately.
func (w scheduleWindow) shouldSchedule(publishAt, now time.Time) bool {
	return publishAt.Sub(now) >= w.minLead
}

// classifier maps a non-2xx response to a typed error. Each platform supplies its
// own, keeping error-signature string matching in exactly one place per platform.
type classifier func(status int, body []byte) error

// uploadChunks streams the file at path to uploadURL in fixed-size byte ranges,
// one Content-Range PUT per chunk. Any chunk failure aborts the whole attempt; a
// retry restarts the session on the next run.
func uploadChunks(ctx context.Context, client *http.Client, limiter *rate.Limiter, classify classifier, uploadURL, path string, size int64, progress ProgressFunc) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("%w: failed to open video file: %v", shared.ErrUploadFailed, err)
	}
	defer f.Close()

	totalChunks := int((size + ChunkSize - 1) / ChunkSize)
	buf := make([]byte, ChunkSize)
	var sent int64

	for chunk := 0; chunk < totalChunks; chunk++ {
		if limiter != nil {
			if err := limiter.Wait(ctx); err != nil {
				return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
			}
		}

		n, err := io.ReadFull(f, buf)
		if err == io.ErrUnexpectedEOF || err == io.EOF {
			// last chunk
		} else if err != nil {
			return fmt.Errorf("%w: failed to read video file: %v", shared.ErrUploadFailed, err)
		}
		if n == 0 {
			break
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodPut, uploadURL, bytes.NewReader(buf[:n]))
		if err != nil {
			return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
		}
		req.Header.Set("Content-Type", "application/octet-stream")
		req.Header.Set("Content-Range", fmt.Sprintf("bytes %d-%d/%d", sent, sent+int64(n)-1, size))
		req.ContentLength = int64(n)

		resp, err := client.Do(req)
		if err != nil {
			return fmt.Errorf("%w: chunk %d/%d: %v", shared.ErrUploadFailed, chunk+1, totalChunks, err)
		}
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()

		if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusNoContent {
			return fmt.Errorf("chunk %d/%d: %w", chunk+1, totalChunks, classify(resp.StatusCode, body))
		}

		sent += int64(n)
		if progress != nil {
			progress(sent, size)
		}
	}

	return nil
}

// doJSON posts a JSON payload and decodes a JSON response, classifying non-2xx
// statuses through classify.
func doJSON(ctx context.Context, client *http.Client, classify classifier, method, url string, payload, result any) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return fmt.Errorf("%w: failed to marshal request: %v", shared.ErrUploadFailed, err)
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrUploadFailed, err)
	}
	req.Header.Set("Content-Type", "application/json; charset=UTF-8")

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrUploadFailed, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrUploadFailed, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return classify(resp.StatusCode, data)
	}

	if result != nil {
		if err := json.Unmarshal(data, result); err != nil {
			return fmt.Errorf("%w: failed to decode response: %v", shared.ErrUploadFailed, err)
		}
	}

	return nil
}
