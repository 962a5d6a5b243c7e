// package library defines the Service interface for reading a music
// library snapshot from an external source.
//
// Apple Music XML export
package library

import "github.com/desertthunder/playlister/internal/models"

// Service defines the interface for library sources that can list the
// user's tracks. Reads are pure; a snapshot is parsed once per run.
type Service interface {
	// GetTracks returns every music track in the library snapshot.
	GetTracks() ([]models.LibraryTrack, error)

	// Name returns the name of the source (e.g., "Apple Music")
	Name() string
}
