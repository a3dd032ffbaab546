package nwhl

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/fortuna/rink/internal/table"
)

// ErrMalformedRecord means a top-level collection the converter depends on is
// missing or has the wrong shape. Fatal for the run, unlike per-play field
// problems which resolve to defaults.
var ErrMalformedRecord = errors.New("malformed play-by-play record")

// periodEndSeconds is the fixed elapsed value assigned to period boundaries,
// regardless of what the clock string says.
const periodEndSeconds = int64(1200)

// playColumns is the play table layout before name enrichment, matching the
// per-play extraction order.
var playColumns = []string{
	"event_index", "date", "time", "seconds_elapsed", "game_id",
	"event", "event_description", "period",
	"event_p1", "event_p2", "event_p3", "event_team", "x_coord", "y_coord",
	"away_goalie", "home_goalie", "away_score", "home_score",
}

// participantColumns are the identifier columns coerced to integers and later
// resolved to player names.
var participantColumns = []string{"event_p1", "event_p2", "event_p3", "away_goalie", "home_goalie"}

// Transform decomposes a raw game record into play, player, and team tables.
// Player and team tables are direct projections of the source arrays. The play
// table gets derived fields, home/away broadcast from the team table, numeric
// coercion of participant ids, and a stable (period, seconds_elapsed,
// event_index) ordering.
func Transform(record map[string]interface{}) (plays, players, teams *table.Table, err error) {
	rawPlays, err := requireArray(record, "plays")
	if err != nil {
		return nil, nil, nil, err
	}
	rawPlayers, err := requireArray(record, "roster_player")
	if err != nil {
		return nil, nil, nil, err
	}
	rawTeams, err := requireArray(record, "team_instance")
	if err != nil {
		return nil, nil, nil, err
	}

	players = projectTable(rawPlayers)
	teams = projectTable(rawTeams)

	plays = table.New(playColumns...)
	for _, entry := range rawPlays {
		play, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		plays.Append(playRow(play))
	}

	plays.FillMissing(int64(0))

	// The feed lists the home side first and the away side second. The order
	// itself is trusted, but a short list would silently mislabel every row, so
	// that much is checked.
	if teams.Len() < 2 {
		return nil, nil, nil, fmt.Errorf("%w: expected two team_instance entries, got %d", ErrMalformedRecord, teams.Len())
	}
	home := teams.Rows()[0]
	away := teams.Rows()[1]
	plays.Set("home_team", home["name"])
	plays.Set("home_team_id", home["team_id"])
	plays.Set("away_team", away["name"])
	plays.Set("away_team_id", away["team_id"])

	plays.CoerceInt(participantColumns...)
	plays.SortBy("period", "seconds_elapsed", "event_index")

	return plays, players, teams, nil
}

// playRow extracts one normalized row from a play entry. Field-level problems
// never fail the row; they leave the cell nil for the later zero-fill.
func playRow(play map[string]interface{}) table.Row {
	summary := extractMap(play, "play_summary")
	description := extractString(play, "play_by_play_string")
	trimmed := strings.TrimSpace(description)

	row := table.Row{}
	row["event_index"] = play["play_index"]
	row["date"] = creationDate(play)
	row["time"] = play["clock_time_string"]
	row["seconds_elapsed"] = elapsedSeconds(play)
	row["game_id"] = play["game_id"]

	if hasPeriodEndTag(play) {
		row["event"] = "Period End"
	} else {
		row["event"] = extractString(play, "play_type")
	}

	if strings.ToLower(trimmed) == "penalty" {
		row["event_description"] = trimmed + " " + extractString(summary, "details")
	} else {
		row["event_description"] = trimmed
	}

	row["period"] = play["time_interval"]

	// Participant semantics branch on the description text: goals carry scorer
	// and assisters, everything else carries the primary actor and a loser-like
	// secondary. The substring check mirrors the source feed's convention.
	if strings.Contains(description, "Goal") {
		row["event_p1"] = summary["scorer_id"]
		row["event_p2"] = summary["assist_1_id"]
		row["event_p3"] = summary["assist_2_id"]
	} else {
		row["event_p1"] = play["primary_player_id"]
		row["event_p2"] = summary["loser_id"]
		p3 := summary["assist_2_id"]
		if p3 == nil {
			p3 = int64(0)
		}
		row["event_p3"] = p3
	}

	row["event_team"] = play["team_id"]
	row["x_coord"] = summary["x_coord"]
	row["y_coord"] = summary["y_coord"]

	// Goalies and the running score come from the first action snapshot only.
	actions := extractArray(play, "play_actions")
	if len(actions) > 0 {
		if first, ok := actions[0].(map[string]interface{}); ok {
			row["away_goalie"] = first["away_team_goalie"]
			row["home_goalie"] = first["home_team_goalie"]
			row["away_score"] = first["away_team_score"]
			row["home_score"] = first["home_team_score"]
		}
	}

	return row
}

// elapsedSeconds computes seconds elapsed within the period. Period boundaries
// pin to 1200 and shootouts to 0 before the clock is even considered; a
// missing or unparsable clock resolves to 0.
func elapsedSeconds(play map[string]interface{}) int64 {
	if hasPeriodEndTag(play) {
		return periodEndSeconds
	}
	if extractString(play, "play_type") == "Shootout" {
		return 0
	}
	if secs, ok := clockSeconds(extractString(play, "clock_time_string")); ok {
		return secs
	}
	return 0
}

// clockSeconds parses a MM:SS clock string.
func clockSeconds(clock string) (int64, bool) {
	parts := strings.SplitN(clock, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	minutes, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return 0, false
	}
	seconds, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return 0, false
	}
	return int64(minutes)*60 + int64(seconds), true
}

func hasPeriodEndTag(play map[string]interface{}) bool {
	tags := extractArray(play, "special_tags")
	if len(tags) == 0 {
		return false
	}
	tag, _ := tags[0].(string)
	return tag == "ends_time_interval"
}

// creationDate slices the YYYY-MM-DD prefix off the creation timestamp. Not a
// validated date parse.
func creationDate(play map[string]interface{}) string {
	created := extractString(play, "created_at")
	if len(created) > 10 {
		return created[:10]
	}
	return created
}

// projectTable turns an array of source objects into a table. Column order is
// the sorted union of keys across all entries; Go maps carry no key order.
func projectTable(entries []interface{}) *table.Table {
	seen := make(map[string]struct{})
	var cols []string
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		for k := range m {
			if _, dup := seen[k]; !dup {
				seen[k] = struct{}{}
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)

	t := table.New(cols...)
	for _, entry := range entries {
		m, ok := entry.(map[string]interface{})
		if !ok {
			continue
		}
		row := make(table.Row, len(m))
		for k, v := range m {
			row[k] = v
		}
		t.Append(row)
	}
	return t
}

func requireArray(record map[string]interface{}, key string) ([]interface{}, error) {
	v, ok := record[key]
	if !ok {
		return nil, fmt.Errorf("%w: missing %q", ErrMalformedRecord, key)
	}
	arr, ok := v.([]interface{})
	if !ok {
		return nil, fmt.Errorf("%w: %q is not a list", ErrMalformedRecord, key)
	}
	return arr, nil
}

// Helper functions

func extractString(m map[string]interface{}, key string) string {
	if v, ok := m[key]; ok {
		if str, ok := v.(string); ok {
			return str
		}
	}
	return ""
}

func extractMap(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key]; ok {
		if mapVal, ok := v.(map[string]interface{}); ok {
			return mapVal
		}
	}
	return map[string]interface{}{}
}

func extractArray(m map[string]interface{}, key string) []interface{} {
	if v, ok := m[key]; ok {
		if arrVal, ok := v.([]interface{}); ok {
			return arrVal
		}
	}
	return []interface{}{}
}
