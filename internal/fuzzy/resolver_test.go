package fuzzy

import (
	"errors"
	"testing"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
)

func TestResolverResolve(t *testing.T) {
	tests := []struct {
		name       string
		title      string
		artist     string
		candidates []models.MatchCandidate
		wantID     string
		wantErr    bool
	}{
		{
			name:   "exact match resolves",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "1", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
			},
			wantID: "1",
		},
		{
			name:   "case differences do not matter",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "1", Title: "SHAPE OF YOU", Artist: "ed sheeran", Kind: "song"},
			},
			wantID: "1",
		},
		{
			name:   "non-song kinds are excluded",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "1", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "artist"},
				{ID: "2", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
			},
			wantID: "2",
		},
		{
			name:   "candidates missing fields are excluded",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "1", Title: "", Artist: "Ed Sheeran", Kind: "song"},
				{ID: "2", Title: "Shape of You", Artist: "", Kind: "song"},
				{ID: "3", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
			},
			wantID: "3",
		},
		{
			name:   "first qualifying candidate wins in source order",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "first", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
				{ID: "second", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
			},
			wantID: "first",
		},
		{
			name:       "empty candidate list",
			title:      "Shape of You",
			artist:     "Ed Sheeran",
			candidates: []models.MatchCandidate{},
			wantErr:    true,
		},
		{
			name:   "unrelated candidate does not qualify",
			title:  "Shape of You",
			artist: "Ed Sheeran",
			candidates: []models.MatchCandidate{
				{ID: "1", Title: "Symphony No. 9 in D Minor", Artist: "Ludwig van Beethoven", Kind: "song"},
			},
			wantErr: true,
		},
	}

	resolver := NewResolver()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			match, err := resolver.Resolve(tt.title, tt.artist, tt.candidates)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("Resolve() error = nil, want ErrNoMatch")
				}
				if !errors.Is(err, shared.ErrNoMatch) {
					t.Errorf("Resolve() error = %v, want ErrNoMatch", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("Resolve() error = %v", err)
			}
			if match.ID != tt.wantID {
				t.Errorf("Resolve() ID = %s, want %s", match.ID, tt.wantID)
			}
		})
	}
}

// Thresholds are strict lower bounds: a score equal to the threshold does
// not qualify, so even an identical candidate fails a threshold of 128.
func TestResolverThresholdExclusive(t *testing.T) {
	resolver := &Resolver{ArtistThreshold: 128, TitleThreshold: 128}

	candidates := []models.MatchCandidate{
		{ID: "1", Title: "Shape of You", Artist: "Ed Sheeran", Kind: "song"},
	}

	_, err := resolver.Resolve("Shape of You", "Ed Sheeran", candidates)
	if !errors.Is(err, shared.ErrNoMatch) {
		t.Errorf("Resolve() error = %v, want ErrNoMatch at exclusive threshold", err)
	}
}

func TestResolverLooseTitleTightArtist(t *testing.T) {
	resolver := NewResolver()

	// Minor title punctuation still passes the looser title bound as long
	// as the artist matches tightly.
	candidates := []models.MatchCandidate{
		{ID: "1", Title: "Shape of You!", Artist: "Ed Sheeran", Kind: "song"},
	}

	match, err := resolver.Resolve("Shape of You", "Ed Sheeran", candidates)
	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	if match.ID != "1" {
		t.Errorf("Resolve() ID = %s, want 1", match.ID)
	}
}
