package automation

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/desertthunder/playlister/internal/shared"
)

func TestCreatePlaylistScript(t *testing.T) {
	var captured string
	automation := &AppleMusicAutomation{
		run: func(ctx context.Context, script string) error {
			captured = script
			return nil
		},
	}

	err := automation.CreatePlaylist(context.Background(), "Late Drive", []string{"ID1", "ID2", "ID3"})
	if err != nil {
		t.Fatalf("CreatePlaylist() error = %v", err)
	}

	if !strings.Contains(captured, `set playlistName to "Late Drive"`) {
		t.Error("script missing playlist name")
	}
	if !strings.Contains(captured, `{"ID1", "ID2", "ID3"}`) {
		t.Error("script missing track ids in order")
	}
	if !strings.Contains(captured, `make new user playlist`) {
		t.Error("script missing playlist creation")
	}
	if !strings.Contains(captured, "on error") {
		t.Error("script missing per-track error handling")
	}
}

func TestCreatePlaylistEmptyName(t *testing.T) {
	automation := NewAppleMusicAutomation()

	err := automation.CreatePlaylist(context.Background(), "", []string{"ID1"})
	if !errors.Is(err, shared.ErrInvalidInput) {
		t.Errorf("CreatePlaylist() error = %v, want ErrInvalidInput", err)
	}
}

func TestCreatePlaylistScriptFailure(t *testing.T) {
	automation := &AppleMusicAutomation{
		run: func(ctx context.Context, script string) error {
			return errors.New("osascript: Music got an error")
		},
	}

	err := automation.CreatePlaylist(context.Background(), "Late Drive", nil)
	if !errors.Is(err, shared.ErrAutomation) {
		t.Errorf("CreatePlaylist() error = %v, want ErrAutomation", err)
	}
}

func TestBuildPlaylistScriptQuoting(t *testing.T) {
	script := buildPlaylistScript(`My "Best" Mix`, []string{"A"})

	if !strings.Contains(script, `set playlistName to "My \"Best\" Mix"`) {
		t.Errorf("script does not quote the playlist name safely:\n%s", script)
	}
}
