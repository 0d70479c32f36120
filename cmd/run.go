package main

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/schedule"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tasks"
	"github.com/schollz/progressbar/v3"
	"github.com/urfave/cli/v3"
)

// Run performs one batch upload pass over the clips directory.
func (r *Runner) Run(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}
	if err := r.selectPlatforms(cmd.String("platforms")); err != nil {
		return err
	}
	r.applyOverrides(cmd)

	plan, err := r.buildPlan(cmd)
	if err != nil {
		return err
	}

	dryRun := cmd.Bool("dry-run")
	r.logger.Info("starting upload run", "mode", plan.Mode(), "dry_run", dryRun)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		r.renderProgress(progressCh)
	}()

	result, err := r.engine.Run(ctx, tasks.RunOpts{Plan: &plan, DryRun: dryRun}, progressCh)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	if dryRun {
		return r.writeDryRun(result)
	}

	r.writePlain("\n")
	r.writePlainHeader("Run Complete")
	r.writePlain("Uploaded: %d\n", result.Uploaded)
	r.writePlain("Failed: %d\n", result.Failed)
	r.writePlain("Skipped: %d\n", result.Skipped)
	r.writePlain("Moved to sent: %d\n", result.Relocated)
	r.writePlain("Transferred: %s in %s\n", shared.FormatByteSize(result.TotalBytes), shared.FormatDuration(result.Elapsed))
	return nil
}

// renderProgress consumes engine updates and drives a byte-level progress bar
// for the active upload.
func (r *Runner) renderProgress(progressCh <-chan tasks.ProgressUpdate) {
	var bar *progressbar.ProgressBar

	for update := range progressCh {
		switch update.Phase {
		case tasks.Scan, tasks.Authenticate:
			r.writePlain("%s\n", update.Message)
		case tasks.UploadStart:
			r.writePlain("%s\n", update.Message)
		case tasks.UploadChunk:
			cp, ok := update.Data.(tasks.ChunkProgress)
			if !ok {
				continue
			}
			if bar == nil {
				bar = progressbar.DefaultBytes(cp.Total, cp.Filename)
			}
			bar.Set64(cp.Sent)
		case tasks.UploadDone:
			if bar != nil {
				bar.Finish()
				bar = nil
			}
			r.writePlain("%s\n", update.Message)
		case tasks.FileFailed:
			if bar != nil {
				bar.Close()
				bar = nil
			}
			r.writePlain("%s\n", update.Message)
		case tasks.Relocate, tasks.Summary:
			r.writePlain("%s\n", update.Message)
		}
	}
}

func (r *Runner) writeDryRun(result *tasks.RunResult) error {
	r.writePlainHeader("Dry Run Preview")

	if len(result.Previews) == 0 {
		r.writePlain("No pending videos.\n")
		return nil
	}

	for i, preview := range result.Previews {
		r.writePlain("%d. %s (%s)\n", i+1, preview.Filename, shared.FormatByteSize(preview.SizeBytes))
		r.writePlain("   Title: %s\n", preview.Title)
		r.writePlain("   Publish at: %s\n", preview.PublishAt.Format("2006-01-02 15:04 MST"))
		r.writePlain("   Platforms: %s\n", strings.Join(preview.Platforms, ", "))
		if preview.HasSubtitle {
			r.writePlain("   Subtitle: yes\n")
		}
		if preview.HasThumbnail {
			r.writePlain("   Thumbnail: yes\n")
		}
		for _, warning := range preview.TitleWarnings {
			r.writePlain("   Warning: %s\n", warning)
		}
	}

	r.writePlain("\n%d video(s) would be uploaded.\n", len(result.Previews))
	return nil
}

// applyOverrides copies per-invocation flag values over the loaded config.
func (r *Runner) applyOverrides(cmd *cli.Command) {
	if v := cmd.String("description"); v != "" {
		r.config.Description = v
	}
	if v := cmd.String("tags"); v != "" {
		r.config.Tags = splitList(v)
	}
	if v := cmd.String("category-id"); v != "" {
		r.config.CategoryID = v
	}
	if v := cmd.String("privacy"); v != "" {
		r.config.PrivacyStatus = v
	}
}

// buildPlan resolves schedule settings from flags and config into a publish-time plan.
func (r *Runner) buildPlan(cmd *cli.Command) (schedule.Plan, error) {
	tz := cmd.String("timezone")
	if tz == "" {
		tz = r.config.Timezone
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return schedule.Plan{}, fmt.Errorf("%w: unknown timezone '%s'", shared.ErrInvalidFlag, tz)
	}

	start, err := shared.ParseStartDate(cmd.String("start-date"), loc, time.Now())
	if err != nil {
		return schedule.Plan{}, err
	}

	slots := r.config.HourSlots
	if v := cmd.String("hour-slots"); v != "" {
		slots, err = parseHourSlots(v)
		if err != nil {
			return schedule.Plan{}, err
		}
	}

	return schedule.NewPlan(schedule.Mode(r.config.ScheduleMode), start, loc, slots, r.config.ScheduleDay, r.config.ScheduleHour)
}

func parseHourSlots(s string) ([]int, error) {
	parts := splitList(s)
	slots := make([]int, 0, len(parts))
	for _, part := range parts {
		hour, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid hour slot '%s'", shared.ErrInvalidFlag, part)
		}
		slots = append(slots, hour)
	}
	return slots, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
