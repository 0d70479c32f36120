// submodule cmd contains command definitions
package main

import "github.com/urfave/cli/v3"

func configFlag() cli.Flag {
	return &cli.StringFlag{
		Name:    "config",
		Aliases: []string{"c"},
		Usage:   "Path to configuration file",
	}
}

func platformsFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "platforms",
		Usage: "Comma-separated platform subset to target (default: all configured)",
	}
}

func scheduleFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "start-date",
			Usage: "First publish date (YYYY-MM-DD), defaults to today",
		},
		&cli.StringFlag{
			Name:  "timezone",
			Usage: "IANA timezone for publish times",
		},
		&cli.StringFlag{
			Name:  "hour-slots",
			Usage: "Comma-separated publish hours (0-23), e.g. 8,18",
		},
	}
}

// runCommand handles batch upload runs
func runCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{
		configFlag(),
		platformsFlag(),
		&cli.BoolFlag{
			Name:  "dry-run",
			Usage: "Preview the batch without uploading or changing state",
		},
		&cli.StringFlag{
			Name:  "description",
			Usage: "Override the configured video description",
		},
		&cli.StringFlag{
			Name:  "tags",
			Usage: "Comma-separated tags, overrides config",
		},
		&cli.StringFlag{
			Name:  "category-id",
			Usage: "Override the configured category ID",
		},
		&cli.StringFlag{
			Name:  "privacy",
			Usage: "Privacy status for uploaded videos",
		},
	}
	flags = append(flags, scheduleFlags()...)

	return &cli.Command{
		Name:   "run",
		Usage:  "Upload pending videos on the configured schedule",
		Flags:  flags,
		Action: r.Run,
	}
}

// statusCommand reports pending videos and delivery state
func statusCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "status",
		Usage: "Show pending videos and per-platform delivery counts",
		Flags: []cli.Flag{
			configFlag(),
			platformsFlag(),
			&cli.BoolFlag{
				Name:  "json",
				Usage: "Output raw JSON",
			},
			&cli.BoolFlag{
				Name:  "pretty",
				Usage: "Pretty-print output",
			},
		},
		Action: r.Status,
	}
}

// historyCommand handles upload history operations
func historyCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "history",
		Usage: "Upload history operations",
		Commands: []*cli.Command{
			{
				Name:  "show",
				Usage: "Print recorded upload history",
				Flags: []cli.Flag{
					configFlag(),
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of entries to show (0 = all)",
					},
					&cli.BoolFlag{
						Name:  "json",
						Usage: "Output raw JSON",
					},
					&cli.BoolFlag{
						Name:  "pretty",
						Usage: "Pretty-print output",
					},
				},
				Action: r.HistoryShow,
			},
			{
				Name:  "export",
				Usage: "Export upload history to a file",
				Flags: []cli.Flag{
					configFlag(),
					&cli.StringFlag{
						Name:  "format",
						Usage: "Export format: csv, markdown, or text",
						Value: "csv",
					},
					&cli.StringFlag{
						Name:    "output",
						Aliases: []string{"o"},
						Usage:   "Output file path",
					},
				},
				Action: r.HistoryExport,
			},
		},
	}
}

// setupCommand initializes the config file and directory layout
func setupCommand(r *Runner) *cli.Command {
	return &cli.Command{
		Name:  "setup",
		Usage: "Create the config file and directory layout",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "Path to configuration file",
				Value:   "config.json",
			},
		},
		Action: r.SetupConfig,
	}
}

// tuiCommand launches the interactive terminal UI
func tuiCommand(r *Runner) *cli.Command {
	flags := []cli.Flag{configFlag(), platformsFlag()}
	flags = append(flags, scheduleFlags()...)

	return &cli.Command{
		Name:   "tui",
		Usage:  "Interactive upload interface",
		Flags:  flags,
		Action: r.TUI,
	}
}
