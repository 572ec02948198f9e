// Command rosterseed loads the physician roster CSV into the
// physician_roster table. Existing physicians are updated in place so the
// command can be re-run after roster edits.
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/hellohealth/intake-platform/internal/roster"
)

func main() {
	_ = godotenv.Load()

	csvPath := flag.String("csv", "fakedata/doctors.csv", "path to the roster CSV")
	flag.Parse()

	databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ros, err := roster.LoadCSV(*csvPath)
	if err != nil {
		log.Fatalf("load csv: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		log.Fatalf("connect: %v", err)
	}
	defer pool.Close()

	tx, err := pool.Begin(ctx)
	if err != nil {
		log.Fatalf("begin: %v", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	for i, name := range ros.Physicians() {
		slots, _ := ros.Slots(name)
		batch.Queue(`
			INSERT INTO physician_roster (name, slots, position)
			VALUES ($1, $2, $3)
			ON CONFLICT (name) DO UPDATE SET slots = EXCLUDED.slots, position = EXCLUDED.position
		`, name, slots, i)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		log.Fatalf("seed: %v", err)
	}
	if err := tx.Commit(ctx); err != nil {
		log.Fatalf("commit: %v", err)
	}

	log.Printf("seeded %d physicians from %s", ros.Len(), *csvPath)
}
