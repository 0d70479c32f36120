package services

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/charmbracelet/log"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"
)

// SecondaryService implements the Service interface for the secondary platform.
//
// The secondary target only accepts publish times up to ten days ahead and at
// least fifteen minutes out. Anything closer than that is published
// immediately instead of scheduled.
type SecondaryService struct {
	baseURL    string
	tokenFile  string
	httpClient *http.Client
	limiter    *rate.Limiter
	logger     *log.Logger
	window     scheduleWindow
	now        func() time.Time
}

// NewSecondaryService creates a new secondary platform client from its configuration.
func NewSecondaryService(cfg shared.PlatformConfig, logger *log.Logger) *SecondaryService {
	limit := cfg.RateLimit
	if limit <= 0 {
		limit = 5.0
	}

	return &SecondaryService{
		baseURL:   strings.TrimRight(cfg.BaseURL, "/"),
		tokenFile: cfg.TokenFile,
		limiter:   rate.NewLimiter(rate.Limit(limit), 1),
		logger:    logger,
		window: scheduleWindow{
			maxDaysAhead: 10,
			minLead:      15 * time.Minute,
		},
		now: time.Now,
	}
}

// Name returns the platform identifier.
func (s *SecondaryService) Name() string { return "secondary" }

// Authenticate loads the platform token and builds the authorized HTTP client.
func (s *SecondaryService) Authenticate(ctx context.Context) error {
	token, err := shared.LoadToken(s.tokenFile)
	if err != nil {
		return err
	}
	s.httpClient = oauth2.NewClient(ctx, oauth2.StaticTokenSource(token))
	return nil
}

// ValidateSchedule checks publishAt against the secondary platform's window.
// Publish times beyond ten days ahead are rejected.
func (s *SecondaryService) ValidateSchedule(publishAt, now time.Time) error {
	return s.window.validate(publishAt, now)
}

type secondaryInitRequest struct {
	PostInfo   secondaryPostInfo   `json:"post_info"`
	SourceInfo secondarySourceInfo `json:"source_info"`
}

type secondaryPostInfo struct {
	Title        string `json:"title"`
	Privacy      string `json:"privacy_level"`
	ScheduleTime int64  `json:"schedule_time,omitempty"`
}

type secondarySourceInfo struct {
	Source          string `json:"source"`
	VideoSize       int64  `json:"video_size"`
	ChunkSize       int64  `json:"chunk_size"`
	TotalChunkCount int    `json:"total_chunk_count"`
}

type secondaryInitResponse struct {
	Data struct {
		PublishID string `json:"publish_id"`
		UploadURL string `json:"upload_url"`
	} `json:"data"`
}

// Upload performs the init, chunked transfer, and commit sequence. Publish
// times inside the minimum lead window fall back to immediate publication.
func (s *SecondaryService) Upload(ctx context.Context, req models.UploadRequest, progress ProgressFunc) (*models.UploadResult, error) {
	if s.httpClient == nil {
		return nil, fmt.Errorf("%w: Authenticate must be called before Upload", shared.ErrNotAuthenticated)
	}

	title, warnings := shared.SanitizeTitle(req.Title)
	for _, w := range warnings {
		s.logger.Warn("title warning", "file", req.Asset.Filename, "warning", w)
	}

	size := req.Asset.SizeBytes
	start := s.now()

	init := secondaryInitRequest{
		PostInfo: secondaryPostInfo{
			Title:   title,
			Privacy: req.Privacy,
		},
		SourceInfo: secondarySourceInfo{
			Source:          "FILE_UPLOAD",
			VideoSize:       size,
			ChunkSize:       ChunkSize,
			TotalChunkCount: int((size + ChunkSize - 1) / ChunkSize),
		},
	}
	if s.window.shouldSchedule(req.PublishAt, start) {
		init.PostInfo.ScheduleTime = req.PublishAt.Unix()
	} else {
		s.logger.Info("publish time inside minimum lead, publishing immediately",
			"file", req.Asset.Filename, "publish_at", req.PublishAt)
	}

	var session secondaryInitResponse
	if err := doJSON(ctx, s.httpClient, classifySecondaryError, http.MethodPost, s.baseURL+"/post/publish/video/init/", init, &session); err != nil {
		return nil, fmt.Errorf("failed to initialize upload: %w", err)
	}

	if err := uploadChunks(ctx, s.httpClient, s.limiter, classifySecondaryError, session.Data.UploadURL, req.Asset.Path, size, progress); err != nil {
		return nil, err
	}

	payload := map[string]string{"publish_id": session.Data.PublishID}
	if err := doJSON(ctx, s.httpClient, classifySecondaryError, http.MethodPost, s.baseURL+"/post/publish/video/commit/", payload, nil); err != nil {
		return nil, fmt.Errorf("failed to commit upload: %w", err)
	}

	elapsed := s.now().Sub(start)
	result := &models.UploadResult{
		RemoteID:         session.Data.PublishID,
		BytesTransferred: size,
		UploadTime:       elapsed,
		Title:            title,
		TitleWarnings:    warnings,
	}
	if elapsed > 0 {
		result.AverageSpeed = float64(size) / elapsed.Seconds()
	}
	return result, nil
}

// classifySecondaryError maps a failed secondary API response to a typed error.
func classifySecondaryError(status int, body []byte) error {
	detail := strings.TrimSpace(string(body))

	if strings.Contains(detail, "rate_limit_exceeded") || strings.Contains(detail, "spam_risk_too_many_posts") {
		return fmt.Errorf("%w: %s", shared.ErrQuotaExceeded, detail)
	}
	if status == http.StatusUnauthorized {
		return fmt.Errorf("%w: status %d: %s", shared.ErrAuthFailed, status, detail)
	}
	return fmt.Errorf("%w: status %d: %s", shared.ErrUploadFailed, status, detail)
}
