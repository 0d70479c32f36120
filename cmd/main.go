package main

import (
	"context"
	"os"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/urfave/cli/v3"
)

func main() {
	logger := shared.NewLogger(nil)

	config := shared.DefaultConfig()
	if _, err := os.Stat("config.json"); err == nil {
		if loadedConfig, err := shared.LoadConfig("config.json"); err == nil {
			config = loadedConfig
		} else {
			logger.Warn("failed to load config.json, using defaults", "error", err)
		}
	}

	runner := NewRunner(RunnerOpts{
		Config: config,
		Logger: logger,
	})

	app := &cli.Command{
		Name:     "zelun",
		Usage:    "Schedule and upload batches of videos to multiple platforms",
		Version:  "0.3.0",
		Commands: runner.register(),
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		logger.Fatalf("application error: %v", err)
	}
}
