package tasks

import (
	"fmt"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// ChunkProgress is the Data payload on UploadChunk updates.
type ChunkProgress struct {
	Filename string
	Platform string
	Sent     int64
	Total    int64
}

// Operation phase enumeration
type Phase int

const (
	Scan Phase = iota
	Authenticate
	UploadStart
	UploadChunk
	UploadDone
	FileFailed
	Relocate
	Summary
)

func (p Phase) String() string {
	switch p {
	case Scan:
		return "scan"
	case Authenticate:
		return "authenticate"
	case UploadStart:
		return "upload_start"
	case UploadChunk:
		return "upload_chunk"
	case UploadDone:
		return "upload_done"
	case FileFailed:
		return "file_failed"
	case Relocate:
		return "relocate"
	case Summary:
		return "summary"
	default:
		return ""
	}
}

func scanUpdate(pending []models.VideoAsset) ProgressUpdate {
	var size int64
	for _, asset := range pending {
		size += asset.SizeBytes
	}
	return ProgressUpdate{
		Phase:   Scan,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d pending video(s), %s total", len(pending), shared.FormatByteSize(size)),
	}
}

func authUpdate(step, total int, platform string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Authenticate,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Authenticating with %s...", platform),
	}
}

func uploadStartUpdate(step, total int, asset models.VideoAsset, platform string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadStart,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] Uploading %s to %s (%s)...", step, total, asset.Filename, platform, shared.FormatByteSize(asset.SizeBytes)),
	}
}

func uploadChunkUpdate(step, total int, cp ChunkProgress) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadChunk,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("%s: %s / %s", cp.Filename, shared.FormatByteSize(cp.Sent), shared.FormatByteSize(cp.Total)),
		Data:    cp,
	}
}

func uploadDoneUpdate(step, total int, result *models.UploadResult, platform string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   UploadDone,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✓ %s on %s (ID: %s)", step, total, result.Title, platform, result.RemoteID),
		Data:    result,
	}
}

func fileFailedUpdate(step, total int, filename, platform string, err error) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FileFailed,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] ✗ %s on %s: %v", step, total, filename, platform, err),
	}
}

func relocateUpdate(filename string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Relocate,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Moved %s to sent folder", filename),
	}
}

func summaryUpdate(uploaded, failed, skipped int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   Summary,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Done: %d uploaded, %d failed, %d skipped", uploaded, failed, skipped),
	}
}
