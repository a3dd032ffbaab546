package nwhl

import (
	"strings"

	"github.com/fortuna/rink/internal/table"
)

// ResolveNames left-joins the play table against the player table once per
// participant column, attaching the player's full name as <column>_name.
// Unmatched identifiers keep their row with a nil name; duplicate player ids
// duplicate rows, as any left join would.
func ResolveNames(plays, players *table.Table) *table.Table {
	names := table.New("id", "full_name")
	for _, row := range players.Rows() {
		first, _ := row["first_name"].(string)
		last, _ := row["last_name"].(string)
		names.Append(table.Row{
			"id":        row["id"],
			"full_name": strings.TrimSpace(first) + " " + strings.TrimSpace(last),
		})
	}

	out := plays
	for _, col := range participantColumns {
		out = out.LeftJoin(names, col, "id", "full_name", col+"_name")
	}
	return out
}
