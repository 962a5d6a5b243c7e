package fuzzy

import (
	"fmt"
	"strings"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
)

const (
	// DefaultArtistThreshold bounds artist similarity. Artist names vary
	// little between sources, so the bound is tight.
	DefaultArtistThreshold = 80

	// DefaultTitleThreshold bounds title similarity. Titles carry remix,
	// "feat." and live-version suffixes, so the bound is looser.
	DefaultTitleThreshold = 50

	// songKind is the entity kind that qualifies a candidate.
	songKind = "song"
)

// Resolver picks the best external candidate for a (title, artist) query.
type Resolver struct {
	ArtistThreshold int
	TitleThreshold  int
}

// NewResolver creates a Resolver with the default thresholds.
func NewResolver() *Resolver {
	return &Resolver{
		ArtistThreshold: DefaultArtistThreshold,
		TitleThreshold:  DefaultTitleThreshold,
	}
}

// Resolve returns the first candidate, in source order, whose kind is
// "song" and whose title and artist similarities both exceed the
// resolver's thresholds. Source order is trusted as relevance order; no
// re-ranking by score happens.
//
// Returns [shared.ErrNoMatch] when no candidate qualifies, including for
// an empty candidate list.
func (r *Resolver) Resolve(title, artist string, candidates []models.MatchCandidate) (*models.MatchCandidate, error) {
	queryTitle := HashString(strings.ToLower(title))
	queryArtist := HashString(strings.ToLower(artist))

	for _, candidate := range candidates {
		// Candidates missing required fields are excluded, not scored.
		if candidate.Title == "" || candidate.Artist == "" {
			continue
		}
		if candidate.Kind != songKind {
			continue
		}

		artistScore := Compare(queryArtist, HashString(strings.ToLower(candidate.Artist)))
		if artistScore <= r.ArtistThreshold {
			continue
		}

		titleScore := Compare(queryTitle, HashString(strings.ToLower(candidate.Title)))
		if titleScore <= r.TitleThreshold {
			continue
		}

		return &candidate, nil
	}

	return nil, fmt.Errorf("%w: %s by %s", shared.ErrNoMatch, title, artist)
}
