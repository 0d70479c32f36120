package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
)

func writeTokenFile(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "token.json")
	if err := os.WriteFile(path, []byte(`{"access_token": "test-token", "token_type": "Bearer"}`), 0600); err != nil {
		t.Fatalf("failed to write token file: %v", err)
	}
	return path
}

func writeVideoFile(t *testing.T, size int) models.VideoAsset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip one.mp4")
	data := make([]byte, size)
	for i := range data {
		data[i] = byte(i % 251)
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("failed to write video file: %v", err)
	}
	return models.VideoAsset{Path: path, Filename: filepath.Base(path), SizeBytes: int64(size)}
}

func TestScheduleWindow(t *testing.T) {
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	t.Run("primary has no ceiling", func(t *testing.T) {
		w := scheduleWindow{}
		if err := w.validate(now.AddDate(1, 0, 0), now); err != nil {
			t.Errorf("unexpected error for far-future publish: %v", err)
		}
	})

	t.Run("past rejected", func(t *testing.T) {
		w := scheduleWindow{}
		if err := w.validate(now.Add(-time.Minute), now); !errors.Is(err, shared.ErrScheduleWindow) {
			t.Errorf("expected ErrScheduleWindow, got %v", err)
		}
	})

	t.Run("secondary ceiling at ten days", func(t *testing.T) {
		w := scheduleWindow{maxDaysAhead: 10, minLead: 15 * time.Minute}

		if err := w.validate(now.AddDate(0, 0, 9), now); err != nil {
			t.Errorf("nine days ahead should pass: %v", err)
		}
		if err := w.validate(now.AddDate(0, 0, 11), now); !errors.Is(err, shared.ErrScheduleWindow) {
			t.Errorf("expected ErrScheduleWindow for eleven days ahead, got %v", err)
		}
	})

	t.Run("minimum lead selects immediate publish", func(t *testing.T) {
		w := scheduleWindow{maxDaysAhead: 10, minLead: 15 * time.Minute}

		if w.shouldSchedule(now.Add(10*time.Minute), now) {
			t.Error("ten minutes out is inside the minimum lead")
		}
		if !w.shouldSchedule(now.Add(20*time.Minute), now) {
			t.Error("twenty minutes out should carry a schedule time")
		}
	})
}

func TestPrimaryUpload(t *testing.T) {
	var (
		initSeen   bool
		commitSeen bool
		chunkSeen  bool
		captions   bool
		rangeHdr   string
	)

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/videos/init", func(w http.ResponseWriter, req *http.Request) {
		initSeen = true
		var payload map[string]any
		json.NewDecoder(req.Body).Decode(&payload)
		if payload["title"] != "clip one" {
			t.Errorf("expected sanitized title 'clip one', got %v", payload["title"])
		}
		json.NewEncoder(w).Encode(map[string]string{
			"session_id": "sess-1",
			"upload_url": srv.URL + "/upload/sess-1",
		})
	})
	mux.HandleFunc("/upload/sess-1", func(w http.ResponseWriter, req *http.Request) {
		chunkSeen = true
		rangeHdr = req.Header.Get("Content-Range")
		io.Copy(io.Discard, req.Body)
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/videos/commit", func(w http.ResponseWriter, req *http.Request) {
		commitSeen = true
		json.NewEncoder(w).Encode(map[string]string{"video_id": "vid-42"})
	})
	mux.HandleFunc("/videos/vid-42/captions", func(w http.ResponseWriter, req *http.Request) {
		captions = true
		w.WriteHeader(http.StatusOK)
	})

	logger := shared.NewLogger(io.Discard)
	svc := NewPrimaryService(shared.PlatformConfig{
		BaseURL:   srv.URL,
		TokenFile: writeTokenFile(t),
		RateLimit: 1000,
	}, logger)

	ctx := context.Background()
	if err := svc.Authenticate(ctx); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	asset := writeVideoFile(t, 2048)
	subPath := strings.TrimSuffix(asset.Path, ".mp4") + ".srt"
	if err := os.WriteFile(subPath, []byte("1\n00:00:00,000 --> 00:00:01,000\nhi\n"), 0644); err != nil {
		t.Fatalf("failed to write subtitle: %v", err)
	}

	var lastSent, lastTotal int64
	result, err := svc.Upload(ctx, models.UploadRequest{
		Asset:     asset,
		Title:     asset.Title(),
		Privacy:   "private",
		PublishAt: time.Now().Add(24 * time.Hour),
	}, func(sent, total int64) {
		lastSent, lastTotal = sent, total
	})
	if err != nil {
		t.Fatalf("upload failed: %v", err)
	}

	if !initSeen || !chunkSeen || !commitSeen {
		t.Errorf("expected init/chunk/commit to all be called: %v %v %v", initSeen, chunkSeen, commitSeen)
	}
	if result.RemoteID != "vid-42" {
		t.Errorf("expected remote ID vid-42, got %s", result.RemoteID)
	}
	if result.BytesTransferred != 2048 {
		t.Errorf("expected 2048 bytes transferred, got %d", result.BytesTransferred)
	}
	if rangeHdr != "bytes 0-2047/2048" {
		t.Errorf("unexpected Content-Range %q", rangeHdr)
	}
	if lastSent != 2048 || lastTotal != 2048 {
		t.Errorf("expected final progress 2048/2048, got %d/%d", lastSent, lastTotal)
	}
	if !captions {
		t.Error("expected subtitle to be attached")
	}
	if !result.SubtitleAttached {
		t.Error("expected SubtitleAttached on result")
	}
}

func TestPrimaryUploadErrors(t *testing.T) {
	logger := shared.NewLogger(io.Discard)

	t.Run("upload before authenticate", func(t *testing.T) {
		svc := NewPrimaryService(shared.PlatformConfig{BaseURL: "http://unused"}, logger)
		_, err := svc.Upload(context.Background(), models.UploadRequest{}, nil)
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("quota error from init", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			fmt.Fprint(w, `{"error": {"errors": [{"reason": "uploadLimitExceeded"}]}}`)
		}))
		defer srv.Close()

		svc := NewPrimaryService(shared.PlatformConfig{
			BaseURL:   srv.URL,
			TokenFile: writeTokenFile(t),
			RateLimit: 1000,
		}, logger)
		if err := svc.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		asset := writeVideoFile(t, 64)
		_, err := svc.Upload(context.Background(), models.UploadRequest{
			Asset: asset, Title: asset.Title(), PublishAt: time.Now().Add(time.Hour),
		}, nil)
		if !errors.Is(err, shared.ErrQuotaExceeded) {
			t.Errorf("expected ErrQuotaExceeded, got %v", err)
		}
	})

	t.Run("unauthorized from init", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}))
		defer srv.Close()

		svc := NewPrimaryService(shared.PlatformConfig{
			BaseURL:   srv.URL,
			TokenFile: writeTokenFile(t),
			RateLimit: 1000,
		}, logger)
		if err := svc.Authenticate(context.Background()); err != nil {
			t.Fatalf("authenticate failed: %v", err)
		}

		asset := writeVideoFile(t, 64)
		_, err := svc.Upload(context.Background(), models.UploadRequest{
			Asset: asset, Title: asset.Title(), PublishAt: time.Now().Add(time.Hour),
		}, nil)
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}
	})

	t.Run("missing token file", func(t *testing.T) {
		svc := NewPrimaryService(shared.PlatformConfig{
			BaseURL:   "http://unused",
			TokenFile: filepath.Join(t.TempDir(), "nope.json"),
		}, logger)
		if err := svc.Authenticate(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})
}

func TestSecondaryUpload(t *testing.T) {
	var scheduleTime any
	hasScheduleKey := false

	mux := http.NewServeMux()
	srv := httptest.NewServer(mux)
	defer srv.Close()

	mux.HandleFunc("/post/publish/video/init/", func(w http.ResponseWriter, req *http.Request) {
		var payload map[string]any
		json.NewDecoder(req.Body).Decode(&payload)
		if post, ok := payload["post_info"].(map[string]any); ok {
			scheduleTime, hasScheduleKey = post["schedule_time"]
		}
		json.NewEncoder(w).Encode(map[string]any{
			"data": map[string]string{
				"publish_id": "pub-7",
				"upload_url": srv.URL + "/upload",
			},
		})
	})
	mux.HandleFunc("/upload", func(w http.ResponseWriter, req *http.Request) {
		io.Copy(io.Discard, req.Body)
		w.WriteHeader(http.StatusCreated)
	})
	mux.HandleFunc("/post/publish/video/commit/", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, `{}`)
	})

	logger := shared.NewLogger(io.Discard)
	svc := NewSecondaryService(shared.PlatformConfig{
		BaseURL:   srv.URL,
		TokenFile: writeTokenFile(t),
		RateLimit: 1000,
	}, logger)
	if err := svc.Authenticate(context.Background()); err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}

	t.Run("scheduled when far enough out", func(t *testing.T) {
		asset := writeVideoFile(t, 512)
		publishAt := time.Now().Add(2 * time.Hour)
		result, err := svc.Upload(context.Background(), models.UploadRequest{
			Asset: asset, Title: asset.Title(), Privacy: "private", PublishAt: publishAt,
		}, nil)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if result.RemoteID != "pub-7" {
			t.Errorf("expected remote ID pub-7, got %s", result.RemoteID)
		}
		if !hasScheduleKey {
			t.Error("expected schedule_time in init payload")
		}
		if st, ok := scheduleTime.(float64); !ok || int64(st) != publishAt.Unix() {
			t.Errorf("expected schedule_time %d, got %v", publishAt.Unix(), scheduleTime)
		}
	})

	t.Run("immediate publish inside minimum lead", func(t *testing.T) {
		asset := writeVideoFile(t, 512)
		_, err := svc.Upload(context.Background(), models.UploadRequest{
			Asset: asset, Title: asset.Title(), Privacy: "private", PublishAt: time.Now().Add(5 * time.Minute),
		}, nil)
		if err != nil {
			t.Fatalf("upload failed: %v", err)
		}
		if hasScheduleKey {
			t.Error("publish inside the minimum lead must omit schedule_time")
		}
	})
}

func TestClassifiers(t *testing.T) {
	t.Run("primary quota signatures", func(t *testing.T) {
		for _, body := range []string{
			`{"reason": "uploadLimitExceeded"}`,
			`The user has exceeded the number of videos they may upload.`,
		} {
			if err := classifyPrimaryError(403, []byte(body)); !errors.Is(err, shared.ErrQuotaExceeded) {
				t.Errorf("expected ErrQuotaExceeded for %q, got %v", body, err)
			}
		}
	})

	t.Run("secondary quota signatures", func(t *testing.T) {
		for _, body := range []string{
			`{"error": {"code": "rate_limit_exceeded"}}`,
			`{"error": {"code": "spam_risk_too_many_posts"}}`,
		} {
			if err := classifySecondaryError(429, []byte(body)); !errors.Is(err, shared.ErrQuotaExceeded) {
				t.Errorf("expected ErrQuotaExceeded for %q, got %v", body, err)
			}
		}
	})

	t.Run("generic failures", func(t *testing.T) {
		if err := classifyPrimaryError(500, []byte("server error")); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected ErrUploadFailed, got %v", err)
		}
		if err := classifySecondaryError(500, []byte("server error")); !errors.Is(err, shared.ErrUploadFailed) {
			t.Errorf("expected ErrUploadFailed, got %v", err)
		}
	})
}

func TestFindRelatedFiles(t *testing.T) {
	dir := t.TempDir()
	video := filepath.Join(dir, "episode.01.mp4")
	if err := os.WriteFile(video, []byte("v"), 0644); err != nil {
		t.Fatalf("failed to write video: %v", err)
	}

	t.Run("nothing related", func(t *testing.T) {
		related := FindRelatedFiles(video)
		if related.Subtitle != "" || related.Thumbnail != "" {
			t.Errorf("expected no related files, got %+v", related)
		}
	})

	t.Run("subtitle and thumbnail", func(t *testing.T) {
		sub := filepath.Join(dir, "episode.01.srt")
		thumb := filepath.Join(dir, "episode.01.png")
		os.WriteFile(sub, []byte("s"), 0644)
		os.WriteFile(thumb, []byte("t"), 0644)

		related := FindRelatedFiles(video)
		if related.Subtitle != sub {
			t.Errorf("expected subtitle %s, got %s", sub, related.Subtitle)
		}
		if related.Thumbnail != thumb {
			t.Errorf("expected thumbnail %s, got %s", thumb, related.Thumbnail)
		}
		// "01" is not a language code
		if related.SubtitleLang != "en" {
			t.Errorf("expected default language en, got %s", related.SubtitleLang)
		}
	})
}

func TestSubtitleLanguage(t *testing.T) {
	tests := []struct {
		stem string
		want string
	}{
		{"video.pt-br", "pt-br"},
		{"video.en", "en"},
		{"video.01", "en"},
		{"video", "en"},
		{"video.english-subtitles", "en"},
	}

	for _, tt := range tests {
		if got := subtitleLanguage(tt.stem); got != tt.want {
			t.Errorf("subtitleLanguage(%q) = %q, want %q", tt.stem, got, tt.want)
		}
	}
}
