package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fortuna/rink/internal/table"
)

// PlayColumns is the documented output order for the play-by-play file.
var PlayColumns = []string{
	"event_index", "date", "time", "seconds_elapsed", "game_id", "event",
	"event_description", "period", "event_p1", "event_p1_name",
	"event_p2", "event_p2_name", "event_p3", "event_p3_name", "event_team",
	"x_coord", "y_coord", "away_goalie", "away_goalie_name", "home_goalie",
	"home_goalie_name", "away_score", "home_score", "home_team_id", "home_team",
	"away_team_id", "away_team",
}

// WriteTable writes one table as pipe-delimited text, overwriting any existing
// file at path.
func WriteTable(path string, t *table.Table) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}
	if err := t.WritePipe(f); err != nil {
		f.Close()
		return fmt.Errorf("write %q: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("close %q: %w", path, err)
	}
	return nil
}

// WriteGameTables projects the enriched play table to PlayColumns and writes
// the three per-game files under dir. Returns the paths written so far, which
// on error is the prefix that made it to disk.
func WriteGameTables(dir, gameID string, plays, players, teams *table.Table) ([]string, error) {
	files := []struct {
		name string
		t    *table.Table
	}{
		{gameID + "_pbp_df.txt", plays.Select(PlayColumns...)},
		{gameID + "_player_df.txt", players},
		{gameID + "_team_df.txt", teams},
	}

	var written []string
	for _, f := range files {
		path := filepath.Join(dir, f.name)
		if err := WriteTable(path, f.t); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}
