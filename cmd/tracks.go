package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlister/internal/shared"
	"github.com/urfave/cli/v3"
)

// TracksList prints every stored track with its augmentation state.
func (r *Runner) TracksList(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized, run 'setup database' first", shared.ErrServiceUnavailable)
	}

	tracks, err := r.store.List()
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlainHeader(fmt.Sprintf("Stored Tracks (%d)", len(tracks)))
	for _, track := range tracks {
		marker := " "
		if track.Augmented() {
			marker = "✓"
		}
		r.writePlain("%s %s\n", marker, track.Describe())
	}

	return nil
}

// TracksShow prints a single stored track looked up by platform id.
func (r *Runner) TracksShow(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized, run 'setup database' first", shared.ErrServiceUnavailable)
	}

	platformID := cmd.Args().First()
	if platformID == "" {
		return fmt.Errorf("%w: platform track id is required", shared.ErrMissingArgument)
	}

	track, err := r.store.GetByPlatformID(platformID)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(track, cmd.Bool("pretty"))
	}

	r.writePlainHeader(track.Describe())
	r.writePlain("Platform ID: %s\n", track.PlatformTrackID)
	r.writePlain("Album: %s\n", track.Album)
	if track.Genre != "" {
		r.writePlain("Genre: %s\n", track.Genre)
	}
	if track.Year > 0 {
		r.writePlain("Year: %d\n", track.Year)
	}
	if track.Mood != nil {
		r.writePlain("Mood: %s\n", *track.Mood)
	}
	if track.Style != nil {
		r.writePlain("Style: %s\n", *track.Style)
	}
	if track.Tempo != nil && track.BPM != nil {
		r.writePlain("Tempo: %s (%d BPM)\n", *track.Tempo, *track.BPM)
	}
	if track.Themes != nil {
		r.writePlain("Themes: %s\n", *track.Themes)
	}
	if track.Keywords != nil {
		r.writePlain("Keywords: %s\n", *track.Keywords)
	}

	return nil
}
