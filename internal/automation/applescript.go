// package automation implements playlist creation in the host music
// application.
//
// Apple Music via osascript
package automation

import (
	"context"
	"fmt"
	"os/exec"
	"strings"

	"github.com/desertthunder/playlister/internal/shared"
)

// scriptRunner executes an AppleScript. Overridable in tests.
type scriptRunner func(ctx context.Context, script string) error

// AppleMusicAutomation creates playlists in the Music app through
// AppleScript. Tracks whose persistent id cannot be resolved are
// reported by the script as notifications, not failures.
type AppleMusicAutomation struct {
	run scriptRunner
}

// NewAppleMusicAutomation creates an automation backed by osascript.
func NewAppleMusicAutomation() *AppleMusicAutomation {
	return &AppleMusicAutomation{run: runOsascript}
}

// CreatePlaylist creates a named playlist containing the given persistent
// track ids, in order. Fails with [shared.ErrAutomation] when the host
// application is unavailable or the script fails.
func (a *AppleMusicAutomation) CreatePlaylist(ctx context.Context, name string, trackIDs []string) error {
	if name == "" {
		return fmt.Errorf("%w: playlist name required", shared.ErrInvalidInput)
	}

	script := buildPlaylistScript(name, trackIDs)
	if err := a.run(ctx, script); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAutomation, err)
	}

	return nil
}

func runOsascript(ctx context.Context, script string) error {
	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("osascript failed: %v: %s", err, strings.TrimSpace(string(output)))
	}
	return nil
}

// buildPlaylistScript renders the AppleScript that creates the playlist
// and copies each resolvable track into it.
func buildPlaylistScript(name string, trackIDs []string) string {
	quoted := make([]string, 0, len(trackIDs))
	for _, id := range trackIDs {
		quoted = append(quoted, fmt.Sprintf("%q", id))
	}

	return fmt.Sprintf(`set playlistName to %q
set trackIDs to {%s}

tell application "Music"
    set newPlaylist to make new user playlist with properties {name:playlistName}

    repeat with trackID in trackIDs
        try
            set theTrack to (first track of library playlist 1 whose persistent ID is trackID)
            duplicate theTrack to newPlaylist
        on error
            display notification "Track with ID " & trackID & " not found in library" with title "Track Missing"
        end try
    end repeat
end tell`, name, strings.Join(quoted, ", "))
}
