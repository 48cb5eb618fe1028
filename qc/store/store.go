// Package store keeps show transcripts in SQLite and serves random lines
// from them.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoLines is returned when no line matches a query
var ErrNoLines = errors.New("no matching lines")

const schema = `
CREATE TABLE IF NOT EXISTS seasons (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    number INTEGER NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS episodes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    season_id INTEGER NOT NULL REFERENCES seasons(id),
    number INTEGER NOT NULL,
    title TEXT NOT NULL DEFAULT '',
    UNIQUE (season_id, number)
);
CREATE TABLE IF NOT EXISTS speakers (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    name TEXT NOT NULL UNIQUE
);
CREATE TABLE IF NOT EXISTS lines (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    season_id INTEGER NOT NULL REFERENCES seasons(id),
    episode_id INTEGER NOT NULL REFERENCES episodes(id),
    speaker_id INTEGER REFERENCES speakers(id),
    line_number INTEGER NOT NULL,
    content TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_lines_episode ON lines(episode_id);
`

// Season is one season of the show
type Season struct {
	ID     int64 `json:"id"`
	Number int   `json:"number"`
}

// Episode is one episode of a season
type Episode struct {
	ID       int64  `json:"id"`
	SeasonID int64  `json:"season_id"`
	Number   int    `json:"number"`
	Title    string `json:"title"`
}

// Line is a single transcript line. Narration has no speaker.
type Line struct {
	ID          int64   `json:"id"`
	SeasonID    int64   `json:"season_id"`
	EpisodeID   int64   `json:"episode_id"`
	SpeakerID   *int64  `json:"speaker_id"`
	SpeakerName *string `json:"speaker_name"`
	LineNumber  int     `json:"line_number"`
	Content     string  `json:"content"`
}

// LineFilter narrows random line selection. Nil fields match anything.
type LineFilter struct {
	SeasonID  *int64
	EpisodeID *int64
	SpeakerID *int64
}

// Store is a transcript database
type Store struct {
	db   *sql.DB
	path string
}

// Open opens or creates the database at path and applies the schema
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, os.ModePerm); err != nil {
			return nil, fmt.Errorf("create db dir: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}
	// One connection keeps in-memory databases shared across queries
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, err)
		}
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}
	return &Store{db: db, path: path}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// RandomLine picks a non-empty line matching filter
func (s *Store) RandomLine(ctx context.Context, filter LineFilter) (Line, error) {
	row := s.db.QueryRowContext(ctx, `
        SELECT l.id, l.season_id, l.episode_id, l.speaker_id, sp.name, l.line_number, l.content
        FROM lines l
        LEFT JOIN speakers sp ON l.speaker_id = sp.id
        WHERE l.content != ''
          AND (?1 IS NULL OR l.season_id = ?1)
          AND (?2 IS NULL OR l.episode_id = ?2)
          AND (?3 IS NULL OR l.speaker_id = ?3)
        ORDER BY RANDOM()
        LIMIT 1`,
		nullableInt(filter.SeasonID), nullableInt(filter.EpisodeID), nullableInt(filter.SpeakerID))
	line, err := scanLine(row)
	if errors.Is(err, sql.ErrNoRows) {
		return line, ErrNoLines
	}
	if err != nil {
		return line, fmt.Errorf("random line: %w", err)
	}
	return line, nil
}

// Seasons lists all seasons in order
func (s *Store) Seasons(ctx context.Context) ([]Season, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, number FROM seasons ORDER BY number`)
	if err != nil {
		return nil, fmt.Errorf("query seasons: %w", err)
	}
	defer rows.Close()

	seasons := make([]Season, 0)
	for rows.Next() {
		var season Season
		if err := rows.Scan(&season.ID, &season.Number); err != nil {
			return nil, fmt.Errorf("scan season: %w", err)
		}
		seasons = append(seasons, season)
	}
	return seasons, rows.Err()
}

// Episodes lists the episodes of a season in order
func (s *Store) Episodes(ctx context.Context, seasonID int64) ([]Episode, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, season_id, number, title FROM episodes WHERE season_id = ? ORDER BY number`,
		seasonID)
	if err != nil {
		return nil, fmt.Errorf("query episodes: %w", err)
	}
	defer rows.Close()

	episodes := make([]Episode, 0)
	for rows.Next() {
		var episode Episode
		if err := rows.Scan(&episode.ID, &episode.SeasonID, &episode.Number, &episode.Title); err != nil {
			return nil, fmt.Errorf("scan episode: %w", err)
		}
		episodes = append(episodes, episode)
	}
	return episodes, rows.Err()
}

// Transcript returns the lines of an episode by season and episode number
func (s *Store) Transcript(ctx context.Context, seasonNumber, episodeNumber int) ([]Line, error) {
	rows, err := s.db.QueryContext(ctx, `
        SELECT l.id, l.season_id, l.episode_id, l.speaker_id, sp.name, l.line_number, l.content
        FROM lines l
        JOIN episodes e ON l.episode_id = e.id
        JOIN seasons s ON e.season_id = s.id
        LEFT JOIN speakers sp ON l.speaker_id = sp.id
        WHERE s.number = ? AND e.number = ?
        ORDER BY l.line_number`,
		seasonNumber, episodeNumber)
	if err != nil {
		return nil, fmt.Errorf("query transcript: %w", err)
	}
	defer rows.Close()

	lines := make([]Line, 0)
	for rows.Next() {
		line, err := scanLine(rows)
		if err != nil {
			return nil, fmt.Errorf("scan line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanLine(row scanner) (Line, error) {
	var line Line
	var speakerID sql.NullInt64
	var speakerName sql.NullString
	err := row.Scan(&line.ID, &line.SeasonID, &line.EpisodeID, &speakerID,
		&speakerName, &line.LineNumber, &line.Content)
	if err != nil {
		return Line{}, err
	}
	if speakerID.Valid {
		id := speakerID.Int64
		line.SpeakerID = &id
	}
	if speakerName.Valid {
		name := speakerName.String
		line.SpeakerName = &name
	}
	return line, nil
}

func nullableInt(v *int64) any {
	if v == nil {
		return nil
	}
	return *v
}
