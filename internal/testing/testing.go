// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/models"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/services"
)

// MockService is a configurable test double for [services.Service]
type MockService struct {
	PlatformName     string
	AuthenticateFunc func(ctx context.Context) error
	ValidateFunc     func(publishAt, now time.Time) error
	UploadFunc       func(ctx context.Context, req models.UploadRequest, progress services.ProgressFunc) (*models.UploadResult, error)
}

func (m *MockService) Name() string {
	if m.PlatformName == "" {
		return "mock"
	}
	return m.PlatformName
}

func (m *MockService) Authenticate(ctx context.Context) error {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(ctx)
	}
	return nil
}

func (m *MockService) ValidateSchedule(publishAt, now time.Time) error {
	if m.ValidateFunc != nil {
		return m.ValidateFunc(publishAt, now)
	}
	return nil
}

func (m *MockService) Upload(ctx context.Context, req models.UploadRequest, progress services.ProgressFunc) (*models.UploadResult, error) {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, req, progress)
	}
	return &models.UploadResult{RemoteID: "mock-id", BytesTransferred: req.Asset.SizeBytes, Title: req.Title}, nil
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

func MustGetwd(t *testing.T) string {
	t.Helper()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Failed to get working directory: %v", err)
	}
	return wd
}

func MustChdir(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Failed to change directory to %s: %v", dir, err)
	}
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func AssertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		t.Errorf("Directory does not exist: %s", path)
		return
	}
	if !info.IsDir() {
		t.Errorf("Path is not a directory: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

// MustWriteFile writes content to path, failing the test on error.
func MustWriteFile(t *testing.T, path string, content []byte) {
	t.Helper()
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
