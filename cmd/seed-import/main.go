package main

import (
	"context"
	"flag"
	"log"

	"surething-api/internal/config"
	"surething-api/internal/database"
	"surething-api/internal/logger"
	"surething-api/internal/seed"
)

// Loads seed files into the configured database. Inserts are idempotent, so
// re-running against a seeded database is a no-op.
//
//	seed-import -dir ./seed -format json
//	seed-import -dir ./seed -format csv -apply-schema
func main() {
	dir := flag.String("dir", ".", "directory containing seed files")
	format := flag.String("format", "json", "seed format: json or csv")
	applySchema := flag.Bool("apply-schema", false, "apply the built-in schema before importing")
	flag.Parse()

	cfg := config.Load()

	zlog, err := logger.New(cfg.Log.Level, "console", "seed-import")
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer zlog.Sync()

	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	if *applySchema {
		if err := database.ApplySchema(db, database.Schema); err != nil {
			log.Fatalf("Failed to apply schema: %v", err)
		}
	}

	importer := seed.NewImporter(db, zlog)
	ctx := context.Background()

	switch *format {
	case "json":
		err = importer.ImportJSONDir(ctx, *dir)
	case "csv":
		err = importer.ImportCSVDir(ctx, *dir)
	default:
		log.Fatalf("Unknown format %q (want json or csv)", *format)
	}
	if err != nil {
		log.Fatalf("Import failed: %v", err)
	}
}
