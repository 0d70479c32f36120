package services

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// PrimaryService implements the Service interface for the primary platform.
// The primary target accepts publish times arbitrarily far ahead and supports
// caption and thumbnail side assets attached after the video commit.
type PrimaryService struct {
	baseURL    string
	tokenFile  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	window     scheduleWindow
	now        func() time.Time
}

// NewPrimaryService creates a new primary platform client from its configuration.
func NewPrimaryService(cfg shared.PlatformConfig, logger *log.Logger) *PrimaryService {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5.0
	}

	return &PrimaryService{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		tokenFile: cfg.TokenFile,
		limiter:   rate.NewLimiter(rate.Limit(limit), 1),
		logger:    logger,
		window:    scheduleWindow{},
		now:       time.Now,
	}
}

// Name returns the platform identifier.
func (s *PrimaryService) Name() string { return "primary" }

// Authenticate loads the platform token and builds the authorized HTTP client.
func (s *PrimaryService) Authenticate(ctx context.Context) error {
	token, err := shared.LoadToken(s.tokenFile)
	if err != nil {
		return err
	}
	s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	return nil
}

// ValidateSchedule checks publishAt against the primary platform's window.
// The primary platform imposes no advance ceiling.
func (s *PrimaryService) ValidateSchedule(publishAt, now time.Time) error {
	return s.window.validate(publishAt, now)
}

type primaryInitRequest struct {
	VideoSize       int64    `json:"video_size"`
	ChunkSize       int64    `json:"chunk_size"`
	TotalChunkCount int      `json:"total_chunk_count"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Tags            []string `json:"tags,omitempty"`
	CategoryID      string   `json:"category_id"`
	PrivacyStatus   string   `json:"privacy_status"`
	PublishAt       string   `json:"publish_at"`
}

type primaryInitResponse struct {
	SessionID string `json:"session_id"`
	UploadURL string `json:"upload_url"`
}

type primaryCommitResponse struct {
	VideoID string `json:"video_id"`
}

// Upload performs the init, chunked transfer, and commit sequence, then attaches
// side assets best-effort.
func (s *PrimaryService) Upload(ctx context.Context, req models.UploadRequest, progress ProgressFunc) (*models.UploadResult, error) {
	if s.httpClient == nil {
		return nil, fmt.Errorf("%w: Authenticate must be called before Upload", shared.ErrNotAuthenticated)
	}

	title, warnings := shared.SanitizeTitle(req.Title)
	for _, w := range warnings {
		s.logger.Warn("title warning", "file", req.Asset.Filename, "warning", w)
	}

	size := req.Asset.SizeBytes
	start := s.now()

	init := primaryInitRequest{
		VideoSize:       size,
		ChunkSize:       ChunkSize,
		TotalChunkCount: int((size + ChunkSize - 1) / ChunkSize),
		Title:           title,
		Description:     req.Description,
		Tags:            req.Tags,
		CategoryID:      req.CategoryID,
		PrivacyStatus:   req.Privacy,
		PublishAt:       req.PublishAt.Format(time.RFC3339),
	}

	var session primaryInitResponse
	if err := doJSON(ctx, s.httpClient, classifyPrimaryError, http.MethodPost, s.baseURL+"/videos/init", init, &session); err != nil {
		return nil, fmt.Errorf("failed to initialize upload: %w", err)
	}

	if err := uploadChunks(ctx, s.httpClient, s.limiter, classifyPrimaryError, session.UploadURL, req.Asset.Path, size, progress); err != nil {
		return nil, err
	}

	var commit primaryCommitResponse
	payload := map[string]string{"session_id": session.SessionID}
	if err := doJSON(ctx, s.httpClient, classifyPrimaryError, http.MethodPost, s.baseURL+"/videos/commit", payload, &commit); err != nil {
		return nil, fmt.Errorf("failed to commit upload: %w", err)
	}

	elapsed := s.now().Sub(start)
	result := &models.UploadResult{
		RemoteID:         commit.VideoID,
		BytesTransferred: size,
		UploadTime:       elapsed,
		Title:            title,
		TitleWarnings:    warnings,
	}
	if elapsed > 0 {
		result.AverageSpeed = float64(size) / elapsed.Seconds()
	}

	// Side assets are best-effort: the video is already committed, so failures
	// here are warnings and never fail the upload.
	related := FindRelatedFiles(req.Asset.Path)
	if related.Subtitle != "" {
		if err := s.attachSubtitle(ctx, commit.VideoID, related.Subtitle, related.SubtitleLang); err != nil {
			s.logger.Warn("failed to attach subtitle", "file", req.Asset.Filename, "error", err)
		} else {
			result.SubtitleAttached = true
			s.logger.Info("subtitle attached", "file", req.Asset.Filename, "language", related.SubtitleLang)
		}
	}
	if related.Thumbnail != "" {
		if err := s.attachThumbnail(ctx, commit.VideoID, related.Thumbnail); err != nil {
			s.logger.Warn("failed to attach thumbnail", "file", req.Asset.Filename, "error", err)
		} else {
			result.ThumbnailAttached = true
			s.logger.Info("thumbnail attached", "file", req.Asset.Filename)
		}
	}

	return result, nil
}

func (s *PrimaryService) attachSubtitle(ctx context.Context, videoID, path, lang string) error {
	return s.attachAsset(ctx, fmt.Sprintf("%s/videos/%s/captions?language=%s", s.baseURL, videoID, lang), path, "application/octet-stream")
}

func (s *PrimaryService) attachThumbnail(ctx context.Context, videoID, path string) error {
	return s.attachAsset(ctx, fmt.Sprintf("%s/videos/%s/thumbnail", s.baseURL, videoID), path, "image/png")
}

func (s *PrimaryService) attachAsset(ctx context.Context, url, path, contentType string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, f)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("status %d", resp.StatusCode)
	}
	return nil
}

// classifyPrimaryError maps a failed primary API response to a typed error.
//
// Quota detection matches the remote service's known error signatures. The
// substrings are brittle and may drift with the API's wording, which is why they
// appear only here.
func classifyPrimaryError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))

	if strings.Contains(detail, "uploadLimitExceeded") || strings.Contains(detail, "exceeded the number of videos") {
		return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, detail)
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAuthFailed, status, detail)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrUploadFailed, status, detail)
}
