package main

import (
	"fmt"
	"log"
	"os"

	"surething-api/internal/config"
	"surething-api/internal/database"
)

// Applies the built-in schema (or a SQL file given as the first argument) to
// the configured database. Already-existing objects are skipped, so this is
// safe to re-run.
func main() {
	ddl := database.Schema
	if len(os.Args) > 1 {
		content, err := os.ReadFile(os.Args[1])
		if err != nil {
			log.Fatalf("Failed to read schema file: %v", err)
		}
		ddl = string(content)
	}

	cfg := config.Load()
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Cannot connect to database: %v", err)
	}
	defer db.Close()

	if err := database.ApplySchema(db, ddl); err != nil {
		log.Fatalf("Failed to apply schema: %v", err)
	}
	fmt.Printf("Schema applied to %s\n", cfg.Database.Database)
}
