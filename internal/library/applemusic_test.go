package library

import (
	"path/filepath"
	"testing"

	"github.com/desertthunder/playlister/internal/models"
	tu "github.com/desertthunder/playlister/internal/testing"
)

const sampleLibraryXML = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">
<plist version="1.0">
<dict>
	<key>Major Version</key><integer>1</integer>
	<key>Tracks</key>
	<dict>
		<key>1001</key>
		<dict>
			<key>Track ID</key><integer>1001</integer>
			<key>Persistent ID</key><string>A1B2C3D4E5F60001</string>
			<key>Name</key><string>Shape of You</string>
			<key>Artist</key><string>Ed Sheeran</string>
			<key>Album</key><string>Divide</string>
			<key>Genre</key><string>Pop</string>
			<key>Year</key><integer>2017</integer>
			<key>Total Time</key><integer>233000</integer>
			<key>Kind</key><string>MPEG audio file</string>
			<key>Location</key><string>file:///Users/me/Music/Shape%20of%20You.mp3</string>
		</dict>
		<key>1002</key>
		<dict>
			<key>Track ID</key><integer>1002</integer>
			<key>Persistent ID</key><string>A1B2C3D4E5F60002</string>
			<key>Name</key><string>Concert Film</string>
			<key>Artist</key><string>Ed Sheeran</string>
			<key>Kind</key><string>MPEG-4 video file</string>
			<key>Location</key><string>file:///Users/me/Movies/concert.mp4</string>
		</dict>
		<key>1003</key>
		<dict>
			<key>Track ID</key><integer>1003</integer>
			<key>Persistent ID</key><string>A1B2C3D4E5F60003</string>
			<key>Name</key><string>Streaming Only</string>
			<key>Artist</key><string>Someone</string>
			<key>Kind</key><string>Apple Music AAC audio file</string>
		</dict>
		<key>1004</key>
		<dict>
			<key>Track ID</key><integer>1004</integer>
			<key>Persistent ID</key><string>A1B2C3D4E5F60004</string>
			<key>Name</key><string>Castle on the Hill</string>
			<key>Artist</key><string>Ed Sheeran</string>
			<key>Album</key><string>Divide</string>
			<key>Kind</key><string>AAC audio file</string>
			<key>Location</key><string>file:///Users/me/Music/castle.m4a</string>
		</dict>
	</dict>
</dict>
</plist>`

func parseSample(t *testing.T) []models.LibraryTrack {
	t.Helper()
	tracks, err := ParseLibraryXML([]byte(sampleLibraryXML))
	if err != nil {
		t.Fatalf("ParseLibraryXML() error = %v", err)
	}
	return tracks
}

func TestParseLibraryXML(t *testing.T) {
	tracks := parseSample(t)

	// The video entry and the location-less entry are excluded.
	if len(tracks) != 2 {
		t.Fatalf("tracks = %d, want 2", len(tracks))
	}

	first := tracks[0]
	if first.PlatformTrackID != "A1B2C3D4E5F60001" {
		t.Errorf("PlatformTrackID = %s", first.PlatformTrackID)
	}
	if first.Title != "Shape of You" || first.Artist != "Ed Sheeran" || first.Album != "Divide" {
		t.Errorf("identity fields = %+v", first)
	}
	if first.Genre != "Pop" || first.Year != 2017 {
		t.Errorf("Genre/Year = %s/%d", first.Genre, first.Year)
	}
	if first.TotalTime != 233 {
		t.Errorf("TotalTime = %d, want 233 seconds", first.TotalTime)
	}
	if first.Location != "/Users/me/Music/Shape of You.mp3" {
		t.Errorf("Location = %s, want decoded path", first.Location)
	}

	if tracks[1].Title != "Castle on the Hill" {
		t.Errorf("second track = %s", tracks[1].Title)
	}
}

func TestParseLibraryXMLOrderIsStable(t *testing.T) {
	// Track ids 9 and 10 sort the wrong way lexicographically; the
	// parser must order entries by numeric id regardless of dict
	// iteration order.
	const data = `<?xml version="1.0" encoding="UTF-8"?>
<plist version="1.0">
<dict>
	<key>Tracks</key>
	<dict>
		<key>10</key>
		<dict>
			<key>Persistent ID</key><string>ID10</string>
			<key>Name</key><string>Second</string>
			<key>Kind</key><string>MPEG audio file</string>
			<key>Location</key><string>file:///b.mp3</string>
		</dict>
		<key>9</key>
		<dict>
			<key>Persistent ID</key><string>ID9</string>
			<key>Name</key><string>First</string>
			<key>Kind</key><string>MPEG audio file</string>
			<key>Location</key><string>file:///a.mp3</string>
		</dict>
	</dict>
</dict>
</plist>`

	for range 4 {
		tracks, err := ParseLibraryXML([]byte(data))
		if err != nil {
			t.Fatalf("ParseLibraryXML() error = %v", err)
		}
		if len(tracks) != 2 || tracks[0].PlatformTrackID != "ID9" || tracks[1].PlatformTrackID != "ID10" {
			t.Fatalf("order = %s, %s, want ID9 then ID10", tracks[0].PlatformTrackID, tracks[1].PlatformTrackID)
		}
	}
}

func TestParseLibraryXMLErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"not xml", "not a plist at all"},
		{"no tracks dict", `<?xml version="1.0"?><plist version="1.0"><dict><key>Major Version</key><integer>1</integer></dict></plist>`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseLibraryXML([]byte(tt.data)); err == nil {
				t.Error("ParseLibraryXML() error = nil, want failure")
			}
		})
	}
}

func TestAppleMusicLibraryGetTracks(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Library.xml")
	tu.MustWriteFile(t, path, sampleLibraryXML)

	lib := NewAppleMusicLibrary(path)
	if lib.Name() != "Apple Music" {
		t.Errorf("Name() = %s", lib.Name())
	}

	tracks, err := lib.GetTracks()
	if err != nil {
		t.Fatalf("GetTracks() error = %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("tracks = %d, want 2", len(tracks))
	}
}

func TestAppleMusicLibraryMissingFile(t *testing.T) {
	lib := NewAppleMusicLibrary("/nonexistent/Library.xml")
	if _, err := lib.GetTracks(); err == nil {
		t.Error("GetTracks() error = nil, want read failure")
	}
}

func TestLocationPath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"file:///Users/me/Music/track.mp3", "/Users/me/Music/track.mp3"},
		{"file:///Users/me/Music/A%20Song.mp3", "/Users/me/Music/A Song.mp3"},
		{"/already/a/path.mp3", "/already/a/path.mp3"},
	}

	for _, tt := range tests {
		if got := locationPath(tt.in); got != tt.want {
			t.Errorf("locationPath(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
