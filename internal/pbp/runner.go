package pbp

import (
	"context"
	"fmt"

	"github.com/fortuna/rink/internal/export"
	"github.com/fortuna/rink/internal/ingest/nwhl"
)

// Reporter receives lifecycle callbacks from the runner.
type Reporter interface {
	OnFetchStart(gameID string)
	OnTablesParsed(plays, players, teams int)
	OnFileWritten(path string)
	OnRunComplete(gameID string)
	OnRunError(err error)
}

// Runner executes one fetch-transform-enrich-write conversion per game id.
type Runner struct {
	client *nwhl.Client
	outDir string
}

// NewRunner constructs a runner with the default NWHL base URL.
func NewRunner(outDir string) *Runner {
	return &Runner{
		client: nwhl.NewClient(),
		outDir: outDir,
	}
}

// NewRunnerWithBaseURL overrides the API base URL (useful for tests).
func NewRunnerWithBaseURL(outDir, baseURL string) *Runner {
	return &Runner{
		client: nwhl.New(baseURL),
		outDir: outDir,
	}
}

// Run converts one game, reporting progress via the Reporter if provided.
// Stage-level failures abort the run; per-play field problems were already
// absorbed by the parser.
func (r *Runner) Run(ctx context.Context, gameID string, reporter Reporter) error {
	if reporter != nil {
		reporter.OnFetchStart(gameID)
	}

	record, err := r.client.FetchPlayByPlay(ctx, gameID)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("fetch game %s: %w", gameID, err))
	}

	plays, players, teams, err := nwhl.Transform(record)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("transform game %s: %w", gameID, err))
	}
	if reporter != nil {
		reporter.OnTablesParsed(plays.Len(), players.Len(), teams.Len())
	}

	enriched := nwhl.ResolveNames(plays, players)

	paths, err := export.WriteGameTables(r.outDir, gameID, enriched, players, teams)
	if err != nil {
		return r.fail(reporter, fmt.Errorf("write game %s: %w", gameID, err))
	}

	if reporter != nil {
		for _, path := range paths {
			reporter.OnFileWritten(path)
		}
		reporter.OnRunComplete(gameID)
	}

	return nil
}

func (r *Runner) fail(reporter Reporter, err error) error {
	if reporter != nil {
		reporter.OnRunError(err)
	}
	return err
}
