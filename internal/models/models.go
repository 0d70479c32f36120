package models

import (
	"path/filepath"
	"strings"
	"time"
)

// VideoAsset represents a local video file discovered in the clips directory.
//
// Filename is the unique key within a clips directory; the asset is immutable until
// relocated or deleted by the filesystem.
type VideoAsset struct {
	Path      string
	Filename  string
	SizeBytes int64
}

// Title returns the asset's raw title: the filename without its extension.
func (a VideoAsset) Title() string {
	return strings.TrimSuffix(a.Filename, filepath.Ext(a.Filename))
}

// PlatformStatus records the delivery state of one file on one platform.
//
// A later write for the same (filename, platform) pair always replaces the whole
// object; fields are never merged individually.
type PlatformStatus struct {
	Uploaded      bool       `json:"uploaded"`
	UploadedAt    *time.Time `json:"uploaded_at,omitempty"`
	VideoID       string     `json:"video_id,omitempty"`
	ScheduledTime *time.Time `json:"scheduled_time,omitempty"`
	Error         string     `json:"error,omitempty"`
}

// TrackingRecord maps a platform name to its delivery status for a single file.
type TrackingRecord map[string]PlatformStatus

// UploadRequest carries everything a platform client needs for one transfer attempt.
type UploadRequest struct {
	Asset       VideoAsset
	Title       string // raw title; the client sanitizes it
	Description string
	Tags        []string
	CategoryID  string
	Privacy     string
	PublishAt   time.Time
}

// UploadResult is the outcome of one successful transfer attempt.
type UploadResult struct {
	RemoteID          string
	BytesTransferred  int64
	UploadTime        time.Duration
	AverageSpeed      float64 // bytes per second
	Title             string  // sanitized title actually sent
	TitleWarnings     []string
	SubtitleAttached  bool
	ThumbnailAttached bool
}

// DryRunPreview describes what a run would do for one file without performing it.
type DryRunPreview struct {
	Filename      string
	Title         string
	TitleWarnings []string
	SizeBytes     int64
	PublishAt     time.Time
	Platforms     []string
	HasSubtitle   bool
	HasThumbnail  bool
}
