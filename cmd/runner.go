package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ThomazDiniz/zelun-Scheduler/internal/history"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/services"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/shared"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tasks"
	"github.com/ThomazDiniz/zelun-Scheduler/internal/tracking"
	"github.com/charmbracelet/log"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config   *shared.Config
	services []services.Service
	store    *tracking.Store
	ledger   *history.Ledger
	engine   *tasks.UploadEngine
	logger   *log.Logger
	output   io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config   *shared.Config
	Services []services.Service
	Logger   *log.Logger
	Output   io.Writer
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}

	r := &Runner{
		logger: opts.Logger,
		output: opts.Output,
	}
	r.configure(opts.Config, opts.Services)
	return r
}

// configure rebuilds every config-derived dependency. Called on construction
// and again when a command overrides the config path.
func (r *Runner) configure(config *shared.Config, svcs []services.Service) {
	if svcs == nil {
		svcs = []services.Service{
			services.NewPrimaryService(config.Platforms.Primary, r.logger),
			services.NewSecondaryService(config.Platforms.Secondary, r.logger),
		}
	}

	paths := config.Paths()
	store := tracking.NewStore(paths.TrackingFile, paths.SentDir, r.logger)
	ledger := history.NewLedger(paths.HistoryFile, r.logger)

	r.config = config
	r.services = svcs
	r.store = store
	r.ledger = ledger
	r.engine = tasks.NewUploadEngine(svcs, store, ledger, config, r.logger)
}

// reloadConfig swaps in the config at path when it differs from the one already loaded.
func (r *Runner) reloadConfig(path string) error {
	if path == "" {
		return nil
	}

	config, err := shared.LoadConfig(path)
	if err != nil {
		return fmt.Errorf("failed to load config %s: %w", path, err)
	}
	r.configure(config, nil)
	return nil
}

// selectPlatforms narrows the active services to the named comma-separated
// subset. Delivery tracking and relocation then gate only on the selected
// platforms.
func (r *Runner) selectPlatforms(csv string) error {
	if csv == "" {
		return nil
	}

	var selected []services.Service
	for _, name := range splitList(csv) {
		var match services.Service
		for _, svc := range r.services {
			if svc.Name() == name {
				match = svc
				break
			}
		}
		if match == nil {
			return fmt.Errorf("%w: unknown platform '%s'", shared.ErrInvalidFlag, name)
		}
		selected = append(selected, match)
	}

	r.services = selected
	r.engine = tasks.NewUploadEngine(selected, r.store, r.ledger, r.config, r.logger)
	return nil
}

// SetLogger replaces the runner's logger, propagating it to config-derived dependencies.
func (r *Runner) SetLogger(logger *log.Logger) {
	r.logger = logger
	r.configure(r.config, nil)
}

func (r *Runner) platformNames() []string {
	names := make([]string, len(r.services))
	for i, svc := range r.services {
		names[i] = svc.Name()
	}
	return names
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		runCommand, statusCommand, historyCommand, setupCommand, tuiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writePlainHeader(title string) {
	r.writePlain("═══════════════════════════════════════\n")
	r.writePlain("%v\n", title)
	r.writePlain("═══════════════════════════════════════\n")
}
