// package repositories implements SQLite persistence for augmented
// library tracks.
package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/playlister/internal/models"
	"github.com/desertthunder/playlister/internal/shared"
)

// TrackRepository persists [models.AugmentedLibraryTrack] rows keyed by
// platform track id.
//
// Augmentation columns are nullable: a row is written for every imported
// track even when augmentation failed. No update path exists; re-runs
// rely on Exists to skip stored tracks.
type TrackRepository struct {
	db *sql.DB
}

// NewTrackRepository creates a new TrackRepository with the given database connection
func NewTrackRepository(db *sql.DB) *TrackRepository {
	return &TrackRepository{db: db}
}

const trackColumns = `id, platform_track_id, title, artist, album, genre, year, total_time, location,
		themes, keywords, mood, bpm, tempo, style, created_at, updated_at`

// Exists reports whether a track with the platform id is already stored.
func (r *TrackRepository) Exists(platformTrackID string) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM tracks WHERE platform_track_id = ?)`

	if err := r.db.QueryRow(query, platformTrackID).Scan(&exists); err != nil {
		return false, fmt.Errorf("%w: failed to check track existence: %v", shared.ErrStorage, err)
	}

	return exists, nil
}

// Store inserts a new track row with a generated id.
func (r *TrackRepository) Store(track *models.AugmentedLibraryTrack) error {
	now := time.Now()

	query := `
		INSERT INTO tracks (` + trackColumns + `)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query,
		shared.GenerateID(),
		track.PlatformTrackID,
		track.Title,
		track.Artist,
		track.Album,
		nullString(track.Genre),
		nullInt(track.Year),
		nullInt(track.TotalTime),
		track.Location,
		track.Themes,
		track.Keywords,
		track.Mood,
		track.BPM,
		track.Tempo,
		track.Style,
		now,
		now,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to insert track %s: %v", shared.ErrStorage, track.PlatformTrackID, err)
	}

	return nil
}

// GetByPlatformID retrieves a track by its platform track id.
func (r *TrackRepository) GetByPlatformID(platformTrackID string) (*models.AugmentedLibraryTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks WHERE platform_track_id = ? LIMIT 1`
	return r.scanOne(r.db.QueryRow(query, platformTrackID))
}

// List retrieves all stored tracks in insertion order.
func (r *TrackRepository) List() ([]*models.AugmentedLibraryTrack, error) {
	query := `SELECT ` + trackColumns + ` FROM tracks ORDER BY created_at ASC, platform_track_id ASC`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to query tracks: %v", shared.ErrStorage, err)
	}
	defer rows.Close()

	var tracks []*models.AugmentedLibraryTrack
	for rows.Next() {
		track, err := scanTrack(rows.Scan)
		if err != nil {
			return nil, err
		}
		tracks = append(tracks, track)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: row iteration error: %v", shared.ErrStorage, err)
	}

	return tracks, nil
}

// scanOne scans a single [sql.Row] into a track.
func (r *TrackRepository) scanOne(row *sql.Row) (*models.AugmentedLibraryTrack, error) {
	track, err := scanTrack(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrTrackNotFound
	}
	return track, err
}

// scanTrack scans one row's columns into a track via the given scan function.
func scanTrack(scan func(...any) error) (*models.AugmentedLibraryTrack, error) {
	var (
		id        string
		track     models.AugmentedLibraryTrack
		genre     sql.NullString
		year      sql.NullInt64
		totalTime sql.NullInt64
		themes    sql.NullString
		keywords  sql.NullString
		mood      sql.NullString
		bpm       sql.NullInt64
		tempo     sql.NullString
		style     sql.NullString
		createdAt time.Time
		updatedAt time.Time
	)

	err := scan(
		&id,
		&track.PlatformTrackID,
		&track.Title,
		&track.Artist,
		&track.Album,
		&genre,
		&year,
		&totalTime,
		&track.Location,
		&themes,
		&keywords,
		&mood,
		&bpm,
		&tempo,
		&style,
		&createdAt,
		&updatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("%w: failed to scan track: %v", shared.ErrStorage, err)
	}

	track.Genre = genre.String
	track.Year = int(year.Int64)
	track.TotalTime = int(totalTime.Int64)
	track.Themes = stringPtr(themes)
	track.Keywords = stringPtr(keywords)
	track.Mood = stringPtr(mood)
	track.Tempo = stringPtr(tempo)
	track.Style = stringPtr(style)
	if bpm.Valid {
		value := int(bpm.Int64)
		track.BPM = &value
	}

	return &track, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}
