package main

import (
	"context"
	"fmt"
	"os"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/urfave/cli/v3"
)

// SetupConfig writes the example configuration file and creates the
// directory layout under the configured base directory.
func (r *Runner) SetupConfig(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	if _, err := os.Stat(configPath); err == nil {
		r.logger.Info("config file already exists", "path", configPath)
	} else {
		if err := shared.CreateConfigFile(configPath); err != nil {
			return fmt.Errorf("failed to create config file: %w", err)
		}
		r.logger.Info("config file created", "path", configPath)
	}

	config, err := shared.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("failed to load created config: %w", err)
	}
	r.configure(config, nil)

	paths := config.Paths()
	for _, dir := range []string{paths.ClipsDir, paths.SentDir, paths.LogsDir, paths.BackupsDir} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}

	r.writePlain("Setup complete.\n")
	r.writePlain("Config: %s\n", configPath)
	r.writePlain("Drop videos into %s and run 'zelun run'.\n", paths.ClipsDir)
	return nil
}
