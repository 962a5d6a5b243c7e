package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
	"github.com/desertthunder/playlister/internal/tasks"
	"github.com/desertthunder/playlister/internal/ui"
	"github.com/urfave/cli/v3"
)

// PlaylistGenerate generates a playlist from the name and prompt flags.
func (r *Runner) PlaylistGenerate(ctx context.Context, cmd *cli.Command) error {
	request := models.PlaylistRequest{
		Name:   cmd.String("name"),
		Prompt: cmd.String("prompt"),
	}

	return r.generate(ctx, request, cmd.Bool("json"), cmd.Bool("pretty"))
}

// PlaylistUI collects the request through an interactive form, then generates.
func (r *Runner) PlaylistUI(ctx context.Context, cmd *cli.Command) error {
	request, ok, err := ui.RunForm()
	if err != nil {
		return err
	}
	if !ok {
		r.writePlain("Cancelled.\n")
		return nil
	}

	return r.generate(ctx, request, false, false)
}

func (r *Runner) generate(ctx context.Context, request models.PlaylistRequest, asJSON, pretty bool) error {
	if request.Name == "" || request.Prompt == "" {
		return fmt.Errorf("%w: playlist name and prompt are required", shared.ErrMissingArgument)
	}
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized, run 'setup database' first", shared.ErrServiceUnavailable)
	}

	r.logger.Info("generating playlist", "name", request.Name, "prompt", request.Prompt)
	r.writePlain("Generating playlist %q...\n\n", request.Name)

	started := time.Now()

	progressCh := make(chan tasks.ProgressUpdate, 10)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.RetrieveTracks:
				r.writePlain("🔍 %s\n", update.Message)
			case tasks.CurateTracks:
				r.writePlain("🎧 %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, warnings, err := r.engine(nil).Generate(ctx, request, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	if asJSON {
		return r.writeJSON(result, pretty)
	}

	r.writePlain("\n")
	r.writePlainHeader(fmt.Sprintf("Playlist: %s", result.Request.Name))
	for i, track := range result.Tracks {
		line := fmt.Sprintf("%2d. %s", i+1, track.Describe())
		if track.Mood != nil {
			line += fmt.Sprintf(" [%s]", *track.Mood)
		}
		r.writePlain("%s\n", line)
	}
	r.writePlain("\nGenerated a playlist with %d tracks in %.1f seconds\n", len(result.Tracks), time.Since(started).Seconds())

	if warnings != nil {
		if warnings.UnexpectedCount != 0 {
			r.writePlain("\n⚠ Model selected %d tracks instead of %d\n", warnings.UnexpectedCount, tasks.PlaylistLength)
		}
		if len(warnings.MissingIDs) > 0 {
			r.writePlain("⚠ %d selected ids were not found in storage\n", len(warnings.MissingIDs))
		}
		if warnings.AutomationErr != nil {
			r.writePlain("⚠ Playlist created in memory only: %v\n", warnings.AutomationErr)
		}
	}

	return nil
}
