package main

import (
	"context"
	"strings"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/urfave/cli/v3"
)

// Status reports pending videos and per-platform delivery counts.
func (r *Runner) Status(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}
	if err := r.selectPlatforms(cmd.String("platforms")); err != nil {
		return err
	}

	platforms := r.platformNames()
	pending, err := r.store.PendingVideos(r.config.Paths().ClipsDir, platforms, r.config.VideoExtensions)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(map[string]any{
			"pending":   len(pending),
			"tracked":   r.store.Len(),
			"platforms": r.store.Summary(),
		}, cmd.Bool("pretty"))
	}

	r.writePlainHeader("Upload Status")
	r.writePlain("Tracked videos: %d\n", r.store.Len())
	for platform, count := range r.store.Summary() {
		r.writePlain("Delivered to %s: %d\n", platform, count)
	}

	r.writePlain("\nPending (%d):\n", len(pending))
	if len(pending) == 0 {
		r.writePlain("  none\n")
		return nil
	}

	for i, asset := range pending {
		var missing []string
		status := r.store.Status(asset.Filename)
		for _, platform := range platforms {
			if ps, ok := status[platform]; !ok || !ps.Uploaded {
				missing = append(missing, platform)
			}
		}
		r.writePlain("  %d. %s (%s) -> %s\n", i+1, asset.Filename, shared.FormatByteSize(asset.SizeBytes), strings.Join(missing, ", "))
	}

	return nil
}
