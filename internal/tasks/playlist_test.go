package tasks

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/services"
	"github.com/desertthunder/playlister/internal/shared"
)

func seedStore(store *mockStore, ids ...string) {
	for _, track := range libraryTracks(ids...) {
		mood := "mellow"
		store.Store(&models.AugmentedLibraryTrack{LibraryTrack: track, Mood: &mood})
	}
}

func generateRequest() models.PlaylistRequest {
	return models.PlaylistRequest{Name: "Late Drive", Prompt: "mellow night driving"}
}

func TestGenerateOrderFollowsSelection(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a", "b", "c", "d")

	index := newMockIndex(
		services.SimilarityHit{ID: "a", Score: 0.1},
		services.SimilarityHit{ID: "b", Score: 0.2},
		services.SimilarityHit{ID: "c", Score: 0.3},
		services.SimilarityHit{ID: "d", Score: 0.4},
	)
	model := &mockCurationModel{selection: []string{"c", "a", "d"}}
	automation := &mockAutomation{}

	engine := NewLibraryEngine(EngineOpts{
		Store:      store,
		Index:      index,
		Model:      model,
		Automation: automation,
	})

	result, warnings, err := engine.Generate(context.Background(), generateRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	wantOrder := []string{"c", "a", "d"}
	if len(result.Tracks) != len(wantOrder) {
		t.Fatalf("Tracks = %d, want %d", len(result.Tracks), len(wantOrder))
	}
	for i, id := range wantOrder {
		if result.Tracks[i].PlatformTrackID != id {
			t.Errorf("track %d = %s, want %s", i, result.Tracks[i].PlatformTrackID, id)
		}
	}

	// The model chose 3 instead of the target length; that is a warning,
	// never a retry.
	if warnings.UnexpectedCount != 3 {
		t.Errorf("UnexpectedCount = %d, want 3", warnings.UnexpectedCount)
	}
}

func TestGenerateAutomationReceivesSelectionVerbatim(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a", "b", "c")

	index := newMockIndex(
		services.SimilarityHit{ID: "a"},
		services.SimilarityHit{ID: "b"},
		services.SimilarityHit{ID: "c"},
	)
	model := &mockCurationModel{selection: []string{"b", "c", "a"}}
	automation := &mockAutomation{}

	engine := NewLibraryEngine(EngineOpts{
		Store:      store,
		Index:      index,
		Model:      model,
		Automation: automation,
	})

	if _, _, err := engine.Generate(context.Background(), generateRequest(), nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if !automation.called {
		t.Fatal("automation was not invoked")
	}
	if automation.name != "Late Drive" {
		t.Errorf("playlist name = %s, want Late Drive", automation.name)
	}

	wantIDs := []string{"b", "c", "a"}
	if len(automation.trackIDs) != len(wantIDs) {
		t.Fatalf("automation ids = %v, want %v", automation.trackIDs, wantIDs)
	}
	for i, id := range wantIDs {
		if automation.trackIDs[i] != id {
			t.Errorf("automation id %d = %s, want %s", i, automation.trackIDs[i], id)
		}
	}
}

func TestGenerateAutomationFailureIsNonFatal(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a", "b")

	index := newMockIndex(
		services.SimilarityHit{ID: "a"},
		services.SimilarityHit{ID: "b"},
	)
	model := &mockCurationModel{selection: []string{"a", "b"}}
	automation := &mockAutomation{err: errors.New("osascript: app not running")}

	engine := NewLibraryEngine(EngineOpts{
		Store:      store,
		Index:      index,
		Model:      model,
		Automation: automation,
	})

	result, warnings, err := engine.Generate(context.Background(), generateRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v, want automation failure downgraded", err)
	}

	if warnings.AutomationErr == nil {
		t.Error("AutomationErr = nil, want the automation failure")
	}
	if len(result.Tracks) != 2 {
		t.Errorf("Tracks = %d, want 2 despite automation failure", len(result.Tracks))
	}
}

func TestGenerateSkipsUnhydratableSelection(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a", "b")

	index := newMockIndex(
		services.SimilarityHit{ID: "a"},
		services.SimilarityHit{ID: "b"},
	)
	// The model hallucinated an id storage has never seen.
	model := &mockCurationModel{selection: []string{"a", "ghost", "b"}}

	engine := NewLibraryEngine(EngineOpts{
		Store: store,
		Index: index,
		Model: model,
	})

	result, warnings, err := engine.Generate(context.Background(), generateRequest(), nil)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(result.Tracks) != 2 {
		t.Fatalf("Tracks = %d, want 2", len(result.Tracks))
	}
	if result.Tracks[0].PlatformTrackID != "a" || result.Tracks[1].PlatformTrackID != "b" {
		t.Error("surviving tracks out of selection order")
	}
	if len(warnings.MissingIDs) != 1 || warnings.MissingIDs[0] != "ghost" {
		t.Errorf("MissingIDs = %v, want [ghost]", warnings.MissingIDs)
	}
}

func TestGenerateCurationPrompt(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a")

	index := newMockIndex(services.SimilarityHit{ID: "a"})
	model := &mockCurationModel{selection: []string{"a"}}

	engine := NewLibraryEngine(EngineOpts{
		Store: store,
		Index: index,
		Model: model,
	})

	if _, _, err := engine.Generate(context.Background(), generateRequest(), nil); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if len(model.messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(model.messages))
	}
	if model.messages[0].Role != "system" {
		t.Errorf("first message role = %s, want system", model.messages[0].Role)
	}
	user := model.messages[1].Content
	if !strings.Contains(user, "# Name: Late Drive") {
		t.Error("user prompt missing the playlist name")
	}
	if !strings.Contains(user, "mellow night driving") {
		t.Error("user prompt missing the description")
	}
	if !strings.Contains(user, "## Track ID: a") {
		t.Error("user prompt missing the candidate cards")
	}
}

func TestGenerateErrors(t *testing.T) {
	tests := []struct {
		name    string
		setup   func() *LibraryEngine
		req     models.PlaylistRequest
		wantErr error
	}{
		{
			name: "missing prompt",
			setup: func() *LibraryEngine {
				return NewLibraryEngine(EngineOpts{
					Store: newMockStore(),
					Index: newMockIndex(),
					Model: &mockCurationModel{},
				})
			},
			req:     models.PlaylistRequest{Name: "x"},
			wantErr: shared.ErrMissingArgument,
		},
		{
			name: "missing index",
			setup: func() *LibraryEngine {
				return NewLibraryEngine(EngineOpts{
					Store: newMockStore(),
					Model: &mockCurationModel{},
				})
			},
			req:     generateRequest(),
			wantErr: shared.ErrServiceUnavailable,
		},
		{
			name: "no retrievable candidates",
			setup: func() *LibraryEngine {
				// Hits point at ids storage no longer has.
				return NewLibraryEngine(EngineOpts{
					Store: newMockStore(),
					Index: newMockIndex(services.SimilarityHit{ID: "gone"}),
					Model: &mockCurationModel{},
				})
			},
			req:     generateRequest(),
			wantErr: shared.ErrTrackNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := tt.setup().Generate(context.Background(), tt.req, nil)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Generate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestGenerateCurationFailure(t *testing.T) {
	store := newMockStore()
	seedStore(store, "a")

	engine := NewLibraryEngine(EngineOpts{
		Store: store,
		Index: newMockIndex(services.SimilarityHit{ID: "a"}),
		Model: &mockCurationModel{err: errors.New("model offline")},
	})

	if _, _, err := engine.Generate(context.Background(), generateRequest(), nil); err == nil {
		t.Fatal("Generate() error = nil, want curation failure")
	}
}
