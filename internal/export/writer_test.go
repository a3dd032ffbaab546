package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fortuna/rink/internal/table"
)

func TestWriteTableOverwrites(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.txt")

	first := table.New("a", "b")
	first.Append(table.Row{"a": int64(1), "b": "long first version"})
	first.Append(table.Row{"a": int64(2), "b": "second row"})
	require.NoError(t, WriteTable(path, first))

	second := table.New("a")
	second.Append(table.Row{"a": int64(9)})
	require.NoError(t, WriteTable(path, second))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "a\n9\n", string(data))
}

func TestWriteGameTablesProjectsPlayColumns(t *testing.T) {
	dir := t.TempDir()

	plays := table.New("event_index", "event", "extra_join_artifact")
	plays.Append(table.Row{"event_index": int64(1), "event": "Faceoff", "extra_join_artifact": "drop me"})

	players := table.New("id")
	players.Append(table.Row{"id": int64(10)})

	teams := table.New("name")
	teams.Append(table.Row{"name": "Buffalo Beauts"})

	paths, err := WriteGameTables(dir, "42", plays, players, teams)
	require.NoError(t, err)
	require.Len(t, paths, 3)

	assert.Equal(t, filepath.Join(dir, "42_pbp_df.txt"), paths[0])
	assert.Equal(t, filepath.Join(dir, "42_player_df.txt"), paths[1])
	assert.Equal(t, filepath.Join(dir, "42_team_df.txt"), paths[2])

	data, err := os.ReadFile(paths[0])
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	require.Len(t, lines, 2)

	// Header is the documented column order; columns missing from the play
	// table come out empty and anything extra is dropped.
	assert.Equal(t, strings.Join(PlayColumns, "|"), lines[0])
	fields := strings.Split(lines[1], "|")
	require.Len(t, fields, len(PlayColumns))
	assert.Equal(t, "1", fields[0])
	assert.Equal(t, "Faceoff", fields[5])
	assert.NotContains(t, lines[1], "drop me")
}
