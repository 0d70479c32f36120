package main

import (
	"context"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/formatter"
	"github.com/urfave/cli/v3"
)

// HistoryShow prints recorded upload history entries.
func (r *Runner) HistoryShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	entries := r.ledger.Entries()
	if limit := int(cmd.Int("limit")); limit > 0 && len(entries) > limit {
		entries = entries[len(entries)-limit:]
	}

	if cmd.Bool("json") {
		return r.writeJSON(entries, cmd.Bool("pretty"))
	}

	data, err := formatter.ExportToText(entries)
	if err != nil {
		return err
	}
	return r.writePlain("%s", data)
}

// HistoryExport writes the upload history to a file in the requested format.
func (r *Runner) HistoryExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.reloadConfig(cmd.String("config")); err != nil {
		return err
	}

	path, err := formatter.WriteExport(r.ledger.Entries(), cmd.String("format"), cmd.String("output"))
	if err != nil {
		return err
	}

	r.logger.Info("history exported", "path", path, "format", cmd.String("format"))
	return r.writePlain("Exported history to %s\n", path)
}
