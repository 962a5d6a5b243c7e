package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/playlister/internal/library"
	"github.com/desertthunder/playlister/internal/shared"
	"github.com/desertthunder/playlister/internal/tasks"
	"github.com/urfave/cli/v3"
)

// librarySource prefers an injected library over building one from the flag.
func (r *Runner) librarySource(path string) library.Service {
	if r.library != nil {
		return r.library
	}
	return library.NewAppleMusicLibrary(path)
}

// LibraryImport parses an exported library file, augments every new track
// and stores the results.
func (r *Runner) LibraryImport(ctx context.Context, cmd *cli.Command) error {
	filePath := cmd.String("file")

	if r.store == nil {
		return fmt.Errorf("%w: database not initialized, run 'setup database' first", shared.ErrServiceUnavailable)
	}
	if r.augmenter == nil {
		return fmt.Errorf("%w: augmentation services not configured", shared.ErrServiceUnavailable)
	}

	r.logger.Info("starting library import", "file", filePath)
	r.writePlain("Importing library...\n")
	r.writePlain("Source: %s\n\n", filePath)

	// Create progress channel and goroutine to handle updates
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ParseLibrary:
				r.writePlain("📥 %s\n\n", update.Message)
			case tasks.SkipTrack:
				r.writePlain("   ⏭  %s\n", update.Message)
			case tasks.AugmentTrack:
				r.writePlain("   🔍 %s\n", update.Message)
			case tasks.StoreTrack:
				r.writePlain("   ✓ %s\n", update.Message)
			case tasks.TrackError:
				r.writePlain("   ✗ %s\n", update.Message)
			}
		}
	}()

	// Run the engine operation
	result, err := r.engine(r.librarySource(filePath)).Process(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	// Output summary
	r.writePlain("\n")
	r.writePlainHeader("Import Complete!")
	r.writePlain("Library tracks: %d\n", result.Total)
	r.writePlain("Already stored: %d\n", result.Skipped)
	r.writePlain("Augmented: %d\n", result.Augmented)

	if result.Fallback > 0 {
		r.writePlain("Stored without augmentation: %d\n", result.Fallback)
	}
	if result.StoreFailures > 0 {
		r.writePlain("Failed to store: %d\n", result.StoreFailures)
	}

	return nil
}

// LibraryEmbed indexes every stored track into the vector database.
func (r *Runner) LibraryEmbed(ctx context.Context, cmd *cli.Command) error {
	if r.store == nil {
		return fmt.Errorf("%w: database not initialized, run 'setup database' first", shared.ErrServiceUnavailable)
	}
	if r.index == nil {
		return fmt.Errorf("%w: vector index not configured", shared.ErrServiceUnavailable)
	}

	r.logger.Info("starting library embedding")
	r.writePlain("Indexing stored tracks...\n\n")

	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			r.writePlain("   %s\n", update.Message)
		}
	}()

	result, err := r.engine(nil).EmbedLibrary(ctx, progressCh)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Embedding Complete!")
	r.writePlain("Stored tracks: %d\n", result.Total)
	r.writePlain("Indexed: %d\n", result.Embedded)
	if result.Failed > 0 {
		r.writePlain("Failed: %d\n", result.Failed)
	}

	return nil
}
