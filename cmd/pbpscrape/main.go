package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/fortuna/rink/internal/ingest/nwhl"
	"github.com/fortuna/rink/internal/pbp"
)

const (
	appName    = "pbpscrape"
	appVersion = "1.0.0"
)

func main() {
	log.Printf("=== %s v%s ===", appName, appVersion)

	var (
		baseURL = flag.String("url", getEnv("NWHL_API_BASE", nwhl.DefaultBaseURL), "Play-by-play API base URL")
		outDir  = flag.String("out", getEnv("NWHL_OUT_DIR", "."), "Directory for the delimited output files")
	)
	flag.Parse()

	gameID := strings.TrimSpace(flag.Arg(0))
	if gameID == "" {
		gameID = promptGameID()
	}
	if gameID == "" {
		log.Fatalf("No game id provided")
	}

	runner := pbp.NewRunnerWithBaseURL(*outDir, *baseURL)
	if err := runner.Run(context.Background(), gameID, &consoleReporter{}); err != nil {
		log.Fatalf("scrape failed: %v", err)
	}
}

func promptGameID() string {
	fmt.Print("Please input game id you want scraped: ")
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && line == "" {
		return ""
	}
	return strings.TrimSpace(line)
}

type consoleReporter struct{}

func (c *consoleReporter) OnFetchStart(gameID string) {
	log.Printf("Fetching play-by-play for game %s", gameID)
}

func (c *consoleReporter) OnTablesParsed(plays, players, teams int) {
	log.Printf("Parsed %d plays, %d players, %d teams", plays, players, teams)
}

func (c *consoleReporter) OnFileWritten(path string) {
	log.Printf("Wrote %s", path)
}

func (c *consoleReporter) OnRunComplete(gameID string) {
	log.Printf("✓ Game %s written to disk", gameID)
}

func (c *consoleReporter) OnRunError(err error) {
	log.Printf("Run error: %v", err)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
