package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
)

func TestEmbedLibrary(t *testing.T) {
	store := newMockStore()
	mood := "upbeat"
	bpm := 96
	store.Store(&models.AugmentedLibraryTrack{
		LibraryTrack: models.LibraryTrack{PlatformTrackID: "1", Title: "One", Artist: "A", Album: "X"},
		Mood:         &mood,
		BPM:          &bpm,
	})
	store.Store(&models.AugmentedLibraryTrack{
		LibraryTrack: models.LibraryTrack{PlatformTrackID: "2", Title: "Two", Artist: "B", Album: "Y"},
	})

	index := newMockIndex()
	engine := NewLibraryEngine(EngineOpts{Store: store, Index: index})

	result, err := engine.EmbedLibrary(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedLibrary() error = %v", err)
	}

	if result.Total != 2 || result.Embedded != 2 || result.Failed != 0 {
		t.Errorf("result = %+v, want 2 embedded of 2", result)
	}

	doc, ok := index.upserts["1"]
	if !ok {
		t.Fatal("no upsert keyed by platform track id 1")
	}
	if !strings.Contains(doc, "Mood: upbeat") || !strings.Contains(doc, "BPM: 96") {
		t.Errorf("document = %q, missing augmentation fields", doc)
	}

	metadata := index.metadata["1"]
	if metadata["title"] != "One" || metadata["artist"] != "A" {
		t.Errorf("metadata = %v, missing identity fields", metadata)
	}
}

func TestEmbedLibraryPartialFailure(t *testing.T) {
	store := newMockStore()
	seedStore(store, "1", "2", "3")

	index := newMockIndex()
	index.upsertErr["2"] = true

	engine := NewLibraryEngine(EngineOpts{Store: store, Index: index})

	result, err := engine.EmbedLibrary(context.Background(), nil)
	if err != nil {
		t.Fatalf("EmbedLibrary() error = %v, want per-track failure absorbed", err)
	}

	if result.Embedded != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 embedded and 1 failed", result)
	}
	if _, ok := index.upserts["3"]; !ok {
		t.Error("track after the failed one was not embedded")
	}
}

func TestEmbedLibraryMissingCollaborators(t *testing.T) {
	tests := []struct {
		name string
		opts EngineOpts
	}{
		{"no store", EngineOpts{Index: newMockIndex()}},
		{"no index", EngineOpts{Store: newMockStore()}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			engine := NewLibraryEngine(tt.opts)
			_, err := engine.EmbedLibrary(context.Background(), nil)
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("EmbedLibrary() error = %v, want ErrServiceUnavailable", err)
			}
		})
	}
}

func TestEmbedLibraryListFailure(t *testing.T) {
	store := newMockStore()
	store.listErr = errors.New("db closed")

	engine := NewLibraryEngine(EngineOpts{Store: store, Index: newMockIndex()})
	if _, err := engine.EmbedLibrary(context.Background(), nil); err == nil {
		t.Fatal("EmbedLibrary() error = nil, want list failure")
	}
}
