// Command ratingdriver runs the rating driver over a newline-delimited JSON
// match log, updating the player and opening skill tables and persisting
// its scanner cursor so later runs resume incrementally.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/openingrank/trueskill/internal/driver"
	"github.com/openingrank/trueskill/internal/rating"
	"github.com/openingrank/trueskill/internal/scan"
	"github.com/openingrank/trueskill/internal/skill"
	"github.com/openingrank/trueskill/internal/store"
)

func main() {
	if err := run(); err != nil {
		logrus.WithError(err).Fatal("rating driver failed")
	}
}

func run() error {
	_ = godotenv.Load()

	var (
		matchLog    = flag.String("match-log", os.Getenv("MATCH_LOG_PATH"), "path to a newline-delimited JSON match log")
		incremental = flag.Bool("incremental", true, "resume from the scanner's persisted cursor instead of rescanning from the start")
		maxGames    = flag.Int("max-games", 0, "stop after this many matches (0 = unlimited)")
		checkpoint  = flag.Int("checkpoint", driver.DefaultCheckpointCadence, "flush and inflate uncertainty every N processed matches")
		logLevel    = flag.String("log-level", getenvDefault("LOG_LEVEL", "info"), "logrus level (debug, info, warn, error)")
	)
	flag.Parse()

	level, err := logrus.ParseLevel(*logLevel)
	if err != nil {
		return fmt.Errorf("main: parsing log level %q: %w", *logLevel, err)
	}
	logrus.SetLevel(level)
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	if *matchLog == "" {
		return fmt.Errorf("main: --match-log (or MATCH_LOG_PATH) is required")
	}

	ctx := context.Background()

	playerStore, err := openStore(ctx)
	if err != nil {
		return fmt.Errorf("main: opening player store: %w", err)
	}
	openingStore := store.NewMemory()

	players := skill.NewTable(playerStore, skill.PlayerMissing(playerStore))
	openings := skill.NewTable(openingStore, skill.OpeningTableMissing(playerStore))

	scanner, err := scan.NewFileScanner(*matchLog)
	if err != nil {
		return fmt.Errorf("main: opening match log %q: %w", *matchLog, err)
	}
	if !*incremental {
		if err := scanner.Reset(); err != nil {
			return fmt.Errorf("main: resetting scanner: %w", err)
		}
	}

	d := driver.New(players, openings, rating.DefaultParameters(), scanner, *checkpoint, *maxGames)
	if err := d.Run(ctx); err != nil {
		return fmt.Errorf("main: running driver: %w", err)
	}
	return nil
}

// openStore connects to Postgres when DATABASE_URL is set, falling back to
// an in-memory store (losing durability across process restarts) when it
// is not — convenient for local runs and tests of the binary.
func openStore(ctx context.Context) (store.Store, error) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		logrus.Warn("DATABASE_URL not set; using an in-memory player store with no durability")
		return store.NewMemory(), nil
	}
	pg, err := store.OpenPostgres(ctx, dsn)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		return nil, fmt.Errorf("migrating schema: %w", err)
	}
	return pg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
