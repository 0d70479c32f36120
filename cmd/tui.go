package main

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/ui"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for batch uploads.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	plan, err := r.buildPlan(cmd)
	if err != nil {
		return err
	}

	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(filepath.Join(r.config.Paths().LogsDir, "tui.log"))
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	// Must follow SetLogger, which rebuilds the full service set.
	if err := r.selectPlatforms(cmd.String("platforms")); err != nil {
		return err
	}

	model := ui.NewModel(ctx, r.engine, r.store, r.config, &plan, r.platformNames())
	p := tea.NewProgram(model)

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
