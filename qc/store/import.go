package store

import (
	"bufio"
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ankurkotwal/quotecard/qc/common"
)

// Caser that returns Title case for shouted speaker names.
var titleCaser = cases.Title(language.AmericanEnglish)

// ImportStats counts what an import added
type ImportStats struct {
	Seasons  int
	Episodes int
	Lines    int
}

// Import loads transcripts from dir. Seasons are directories named S<n>
// holding episode files named "E<n> - <Title>.txt". When dir holds no season
// directories, its first subdirectory is searched instead.
func (s *Store) Import(ctx context.Context, dir string, log *common.Logger) (ImportStats, error) {
	var stats ImportStats
	seasonsDir, seasons, err := findSeasons(dir)
	if err != nil {
		return stats, err
	}
	log.Msg("Found %d seasons in %s", len(seasons), seasonsDir)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return stats, fmt.Errorf("begin import: %w", err)
	}
	defer tx.Rollback()

	speakers := make(map[string]int64)
	for _, season := range seasons {
		var seasonID int64
		err := tx.QueryRowContext(ctx, `INSERT INTO seasons (number) VALUES (?)
            ON CONFLICT(number) DO UPDATE SET number = excluded.number RETURNING id`,
			season.number).Scan(&seasonID)
		if err != nil {
			return stats, fmt.Errorf("insert season %d: %w", season.number, err)
		}
		stats.Seasons++

		episodes, err := findEpisodes(filepath.Join(seasonsDir, season.name), log)
		if err != nil {
			return stats, err
		}
		for _, episode := range episodes {
			var episodeID int64
			err := tx.QueryRowContext(ctx, `INSERT INTO episodes (season_id, number, title)
                VALUES (?, ?, ?)
                ON CONFLICT(season_id, number) DO UPDATE SET title = excluded.title RETURNING id`,
				seasonID, episode.number, episode.title).Scan(&episodeID)
			if err != nil {
				return stats, fmt.Errorf("insert episode %s: %w", episode.path, err)
			}
			// Re-imports replace the episode's lines
			if _, err := tx.ExecContext(ctx, `DELETE FROM lines WHERE episode_id = ?`, episodeID); err != nil {
				return stats, fmt.Errorf("clear episode %s: %w", episode.path, err)
			}
			n, err := importLines(ctx, tx, episode.path, seasonID, episodeID, speakers)
			if err != nil {
				return stats, err
			}
			stats.Episodes++
			stats.Lines += n
		}
	}
	if err := tx.Commit(); err != nil {
		return stats, fmt.Errorf("commit import: %w", err)
	}
	log.Msg("Imported %d seasons, %d episodes, %d lines", stats.Seasons,
		stats.Episodes, stats.Lines)
	return stats, nil
}

func importLines(ctx context.Context, tx *sql.Tx, path string, seasonID int64,
	episodeID int64, speakers map[string]int64) (int, error) {
	file, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("open transcript: %w", err)
	}
	defer file.Close()

	count := 0
	lineNumber := 0
	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		lineNumber++
		speaker, content := splitSpeaker(scanner.Text())
		if len(content) == 0 {
			continue
		}
		var speakerID any
		if len(speaker) > 0 {
			id, found := speakers[speaker]
			if !found {
				err := tx.QueryRowContext(ctx, `INSERT INTO speakers (name) VALUES (?)
                    ON CONFLICT(name) DO UPDATE SET name = excluded.name RETURNING id`,
					speaker).Scan(&id)
				if err != nil {
					return count, fmt.Errorf("insert speaker %q: %w", speaker, err)
				}
				speakers[speaker] = id
			}
			speakerID = id
		}
		_, err := tx.ExecContext(ctx, `INSERT INTO lines
            (season_id, episode_id, speaker_id, line_number, content) VALUES (?, ?, ?, ?, ?)`,
			seasonID, episodeID, speakerID, lineNumber, content)
		if err != nil {
			return count, fmt.Errorf("insert line %s:%d: %w", path, lineNumber, err)
		}
		count++
	}
	if err := scanner.Err(); err != nil {
		return count, fmt.Errorf("read transcript %s: %w", path, err)
	}
	return count, nil
}

// splitSpeaker separates "Speaker: text". Lines without a colon are narration.
func splitSpeaker(line string) (string, string) {
	speaker, content, found := strings.Cut(line, ":")
	if !found {
		return "", strings.TrimSpace(line)
	}
	speaker = strings.TrimSpace(speaker)
	if len(speaker) == 0 {
		return "", strings.TrimSpace(content)
	}
	return speakerName(speaker), strings.TrimSpace(content)
}

// speakerName title cases names written in capitals and keeps the rest as
// written, so McDonald stays McDonald.
func speakerName(name string) string {
	if strings.ToUpper(name) == name && strings.ToLower(name) != name {
		return titleCaser.String(name)
	}
	return name
}

type seasonDir struct {
	name   string
	number int
}

func findSeasons(dir string) (string, []seasonDir, error) {
	seasons, err := listSeasons(dir)
	if err != nil {
		return dir, nil, err
	}
	if len(seasons) > 0 {
		return dir, seasons, nil
	}
	// Archives often unpack into a single top level directory
	entries, err := os.ReadDir(dir)
	if err != nil {
		return dir, nil, fmt.Errorf("read %s: %w", dir, err)
	}
	for _, entry := range entries {
		if entry.IsDir() {
			nested := filepath.Join(dir, entry.Name())
			seasons, err := listSeasons(nested)
			return nested, seasons, err
		}
	}
	return dir, nil, nil
}

func listSeasons(dir string) ([]seasonDir, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var seasons []seasonDir
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		number, ok := numberAfterPrefix(entry.Name(), "S")
		if !ok {
			continue
		}
		seasons = append(seasons, seasonDir{name: entry.Name(), number: number})
	}
	sort.Slice(seasons, func(i, j int) bool { return seasons[i].number < seasons[j].number })
	return seasons, nil
}

type episodeFile struct {
	path   string
	number int
	title  string
}

func findEpisodes(dir string, log *common.Logger) ([]episodeFile, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", dir, err)
	}
	var episodes []episodeFile
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasPrefix(name, "E") {
			continue
		}
		episode, ok := parseEpisodeName(name)
		if !ok {
			log.Err("Invalid episode file name %s", filepath.Join(dir, name))
			continue
		}
		episode.path = filepath.Join(dir, name)
		episodes = append(episodes, episode)
	}
	sort.Slice(episodes, func(i, j int) bool { return episodes[i].number < episodes[j].number })
	return episodes, nil
}

// parseEpisodeName reads "E<n> - <Title>.txt"
func parseEpisodeName(name string) (episodeFile, bool) {
	var episode episodeFile
	base := strings.TrimSuffix(name, ".txt")
	numberPart, title, _ := strings.Cut(base, " - ")
	numberPart, _, _ = strings.Cut(numberPart, "-")
	number, ok := numberAfterPrefix(strings.TrimSpace(numberPart), "E")
	if !ok {
		return episode, false
	}
	episode.number = number
	episode.title = strings.TrimSpace(title)
	return episode, true
}

func numberAfterPrefix(name string, prefix string) (int, bool) {
	rest, found := strings.CutPrefix(name, prefix)
	if !found {
		return 0, false
	}
	number, err := strconv.Atoi(rest)
	if err != nil {
		return 0, false
	}
	return number, true
}
