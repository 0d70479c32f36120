package shared

import (
	_ "embed"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

//go:embed config.example.json
var exampleConf []byte

// Config represents the application configuration loaded from a JSON file.
//
// Every field is optional; missing fields fall back to the embedded defaults.
type Config struct {
	BaseDir         string          `json:"base_dir"`
	Timezone        string          `json:"default_timezone"`
	HourSlots       []int           `json:"default_hour_slots"`
	CategoryID      string          `json:"default_category_id"`
	PrivacyStatus   string          `json:"privacy_status"`
	VideoExtensions []string        `json:"video_extensions"`
	Description     string          `json:"description"`
	Tags            []string        `json:"tags"`
	ScheduleMode    string          `json:"schedule_mode"`
	ScheduleDay     string          `json:"schedule_day"`
	ScheduleHour    int             `json:"schedule_hour"`
	Platforms       PlatformsConfig `json:"platforms"`
}

// PlatformsConfig groups per-platform settings.
type PlatformsConfig struct {
	Primary   PlatformConfig `json:"primary"`
	Secondary PlatformConfig `json:"secondary"`
}

// PlatformConfig contains connection settings for one remote platform.
type PlatformConfig struct {
	BaseURL   string  `json:"base_url"`
	TokenFile string  `json:"token_file"`
	RateLimit float64 `json:"rate_limit"`
}

// Paths resolves every file and directory the engine touches from a single base directory,
// so tests can point an isolated instance at a temporary directory.
type Paths struct {
	Base         string
	ClipsDir     string
	SentDir      string
	LogsDir      string
	BackupsDir   string
	TrackingFile string
	HistoryFile  string
	LockFile     string
}

// NewPaths derives the standard installation layout under base.
func NewPaths(base string) Paths {
	return Paths{
		Base:         base,
		ClipsDir:     filepath.Join(base, "clips"),
		SentDir:      filepath.Join(base, "sent"),
		LogsDir:      filepath.Join(base, "logs"),
		BackupsDir:   filepath.Join(base, "backups"),
		TrackingFile: filepath.Join(base, "logs", "upload_tracking.json"),
		HistoryFile:  filepath.Join(base, "logs", "upload_history.json"),
		LockFile:     filepath.Join(base, ".scheduler.lock"),
	}
}

// Paths returns the installation layout for the configured base directory.
func (c *Config) Paths() Paths {
	base := c.BaseDir
	if base == "" {
		base = "."
	}
	return NewPaths(base)
}

// LoadConfig reads and parses a JSON configuration file from the specified path.
//
// User-provided fields override the embedded defaults; unknown fields are ignored.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("%w: failed to parse config: %v", ErrInvalidConfig, err)
	}

	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := json.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.json file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}
