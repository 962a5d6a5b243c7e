package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/playlister/internal/library"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
	"github.com/desertthunder/playlister/internal/tasks"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	store      tasks.TrackStore
	augmenter  tasks.Augmenter
	index      services.VectorIndex
	model      services.StructuredModel
	automation services.PlaylistAutomation
	library    library.Service
	logger     *log.Logger
	output     io.Writer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	Store      tasks.TrackStore
	Augmenter  tasks.Augmenter
	Index      services.VectorIndex
	Model      services.StructuredModel
	Automation services.PlaylistAutomation
	Library    library.Service
	Logger     *log.Logger
	Output     io.Writer
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

	return &Runner{
		config:     opts.Config,
		store:      opts.Store,
		augmenter:  opts.Augmenter,
		index:      opts.Index,
		model:      opts.Model,
		automation: opts.Automation,
		library:    opts.Library,
		logger:     opts.Logger,
		output:     opts.Output,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, libraryCommand, playlistCommand, tracksCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// engine builds a LibraryEngine around the runner's collaborators and the
// provided library source.
func (r *Runner) engine(lib library.Service) *tasks.LibraryEngine {
	return tasks.NewLibraryEngine(tasks.EngineOpts{
		Library:    lib,
		Store:      r.store,
		Augmenter:  r.augmenter,
		Index:      r.index,
		Model:      r.model,
		Automation: r.automation,
		ChunkSize:  r.config.Importer.ChunkSize,
		RateLimit:  r.config.Importer.RateLimit,
	})
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
