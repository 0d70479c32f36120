package tasks

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/history"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/lockfile"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/schedule"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/services"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tracking"
	"github.com/charmbracelet/log"
)

// RunOpts configures a single engine run.
type RunOpts struct {
	Plan   *schedule.Plan // Publish-time plan for this batch
	DryRun bool           // Preview only: no uploads, no state changes
}

// RunResult contains all data from a full upload run.
type RunResult struct {
	RunID        string                 // Unique identifier shared by this run's history entries
	Uploaded     int                    // Successful uploads (per file, per platform)
	Failed       int                    // Failed uploads
	Skipped      int                    // Uploads skipped because the platform already has the file
	Relocated    int                    // Files moved to the sent folder this run
	TotalBytes   int64                  // Bytes transferred across all successful uploads
	Elapsed      time.Duration          // Wall time for the whole run
	Previews     []models.DryRunPreview // Populated only on dry runs
	QuotaStopped bool                   // True when a quota error ended the batch early
}

// releaser lets tests run the engine without touching the real lock file.
type releaser interface {
	Release() error
}

// UploadEngine orchestrates a batch upload run.
// Contains dependencies on platform services, the tracking store, and the history ledger.
type UploadEngine struct {
	services []services.Service
	store    *tracking.Store
	ledger   *history.Ledger
	config   *shared.Config
	paths    shared.Paths
	logger   *log.Logger

	now     func() time.Time
	acquire func(path string) (releaser, error)
}

// NewUploadEngine creates a new UploadEngine with the provided dependencies.
func NewUploadEngine(svcs []services.Service, store *tracking.Store, ledger *history.Ledger, config *shared.Config, logger *log.Logger) *UploadEngine {
	return &UploadEngine{
		services: svcs,
		store:    store,
		ledger:   ledger,
		config:   config,
		paths:    config.Paths(),
		logger:   logger,
		now:      time.Now,
		acquire: func(path string) (releaser, error) {
			return lockfile.Acquire(path)
		},
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *UploadEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

func (e *UploadEngine) platformNames() []string {
	names := make([]string, len(e.services))
	for i, svc := range e.services {
		names[i] = svc.Name()
	}
	return names
}

// Run executes one batch upload pass over the clips directory.
//
// Dry runs perform no network calls and leave every state file untouched;
// they skip locking, backups, authentication, and relocation entirely.
func (e *UploadEngine) Run(ctx context.Context, opts RunOpts, progress chan<- ProgressUpdate) (*RunResult, error) {
	if opts.Plan == nil {
		return nil, fmt.Errorf("%w: schedule plan is required", shared.ErrInvalidInput)
	}
	if len(e.services) == 0 {
		return nil, fmt.Errorf("%w: no platforms configured", shared.ErrInvalidConfig)
	}

	start := e.now()
	result := &RunResult{RunID: shared.GenerateID()}
	platforms := e.platformNames()

	if !opts.DryRun {
		lock, err := e.acquire(e.paths.LockFile)
		if err != nil {
			return nil, err
		}
		defer lock.Release()

		history.BackupSnapshot(e.paths.BackupsDir, []string{e.paths.TrackingFile, e.paths.HistoryFile}, e.logger)

		for i, svc := range e.services {
			e.sendProgress(progress, authUpdate(i+1, len(e.services), svc.Name()))
			if err := svc.Authenticate(ctx); err != nil {
				return nil, fmt.Errorf("failed to authenticate with %s: %w", svc.Name(), err)
			}
		}

		// Retry relocations that a previous run recorded but could not complete.
		e.store.SweepDelivered(e.paths.ClipsDir, platforms)
	}

	pending, err := e.store.PendingVideos(e.paths.ClipsDir, platforms, e.config.VideoExtensions)
	if err != nil {
		return nil, err
	}
	e.sendProgress(progress, scanUpdate(pending))

	total := len(pending) * len(e.services)
	step := 0

	for idx, asset := range pending {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		publishAt := opts.Plan.PublishTime(idx)
		status := e.store.Status(asset.Filename)

		if opts.DryRun {
			result.Previews = append(result.Previews, e.preview(asset, publishAt, status, platforms))
			continue
		}

		fileFailed := false
		for _, svc := range e.services {
			step++

			if ps, ok := status[svc.Name()]; ok && ps.Uploaded {
				result.Skipped++
				continue
			}

			if err := svc.ValidateSchedule(publishAt, e.now()); err != nil {
				e.recordFailure(result, asset, svc.Name(), publishAt, err)
				e.sendProgress(progress, fileFailedUpdate(step, total, asset.Filename, svc.Name(), err))
				fileFailed = true
				continue
			}

			e.sendProgress(progress, uploadStartUpdate(step, total, asset, svc.Name()))

			req := models.UploadRequest{
				Asset:       asset,
				Title:       asset.Title(),
				Description: e.config.Description,
				Tags:        e.config.Tags,
				CategoryID:  e.config.CategoryID,
				Privacy:     e.config.PrivacyStatus,
				PublishAt:   publishAt,
			}

			chunkStep, chunkTotal := step, total
			uploadResult, err := svc.Upload(ctx, req, func(sent, size int64) {
				e.sendProgress(progress, uploadChunkUpdate(chunkStep, chunkTotal, ChunkProgress{
					Filename: asset.Filename,
					Platform: svc.Name(),
					Sent:     sent,
					Total:    size,
				}))
			})
			if err != nil {
				e.recordFailure(result, asset, svc.Name(), publishAt, err)
				e.sendProgress(progress, fileFailedUpdate(step, total, asset.Filename, svc.Name(), err))
				fileFailed = true

				if errors.Is(err, shared.ErrQuotaExceeded) {
					// Quota errors affect the whole account. Retrying the rest of the
					// batch would burn requests for nothing.
					result.QuotaStopped = true
					e.finish(result, start, progress)
					return result, fmt.Errorf("upload quota exhausted, stopping batch: %w", err)
				}
				continue
			}

			e.store.MarkUploaded(asset.Filename, svc.Name(), uploadResult.RemoteID, &publishAt, nil)
			e.ledger.RecordUpload(result.RunID, asset.Filename, svc.Name(), uploadResult.RemoteID,
				&publishAt, asset.SizeBytes, uploadResult.UploadTime, uploadResult.AverageSpeed, nil)
			result.Uploaded++
			result.TotalBytes += uploadResult.BytesTransferred
			e.sendProgress(progress, uploadDoneUpdate(step, total, uploadResult, svc.Name()))
		}

		if !fileFailed && e.store.ShouldMoveToSent(asset.Filename, platforms) {
			e.store.Relocate(asset.Path)
			result.Relocated++
			e.sendProgress(progress, relocateUpdate(asset.Filename))
		}
	}

	e.finish(result, start, progress)
	return result, nil
}

func (e *UploadEngine) recordFailure(result *RunResult, asset models.VideoAsset, platform string, publishAt time.Time, err error) {
	e.store.MarkUploaded(asset.Filename, platform, "", &publishAt, err)
	e.ledger.RecordUpload(result.RunID, asset.Filename, platform, "", &publishAt, asset.SizeBytes, 0, 0, err)
	result.Failed++
}

func (e *UploadEngine) preview(asset models.VideoAsset, publishAt time.Time, status models.TrackingRecord, platforms []string) models.DryRunPreview {
	title, warnings := shared.SanitizeTitle(asset.Title())

	var targets []string
	for _, p := range platforms {
		if ps, ok := status[p]; ok && ps.Uploaded {
			continue
		}
		targets = append(targets, p)
	}

	related := services.FindRelatedFiles(asset.Path)
	return models.DryRunPreview{
		Filename:      asset.Filename,
		Title:         title,
		TitleWarnings: warnings,
		SizeBytes:     asset.SizeBytes,
		PublishAt:     publishAt,
		Platforms:     targets,
		HasSubtitle:   related.Subtitle != "",
		HasThumbnail:  related.Thumbnail != "",
	}
}

func (e *UploadEngine) finish(result *RunResult, start time.Time, progress chan<- ProgressUpdate) {
	result.Elapsed = e.now().Sub(start)
	e.sendProgress(progress, summaryUpdate(result.Uploaded, result.Failed, result.Skipped))

	if len(result.Previews) == 0 && (result.Uploaded > 0 || result.Failed > 0 || result.Skipped > 0) {
		e.ledger.RecordSummary(result.RunID, result.Uploaded, result.Failed, result.Skipped, result.Elapsed)
	}
}
