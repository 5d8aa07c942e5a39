package main

import (
	"database/sql"
	"fmt"
	"log"
	"os"

	_ "github.com/jackc/pgx/v5/stdlib"
)

// Drops the document table for the current environment so the server
// recreates it from scratch on next start. Dev/test convenience only.
func main() {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	env := os.Getenv("ENVIRONMENT")
	if env == "" {
		env = "dev"
	}
	if env == "prod" {
		log.Fatal("refusing to drop prod tables")
	}

	prefix := os.Getenv("TABLE_PREFIX")
	if prefix == "" {
		prefix = env + "_"
	}

	db, err := sql.Open("pgx", dbURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = db.Close() }() // Error ignored: script exiting

	dropSQL := fmt.Sprintf(`DROP TABLE IF EXISTS %sdocuments CASCADE;`, prefix)
	if _, err := db.Exec(dropSQL); err != nil {
		log.Fatalf("Failed to drop tables: %v", err)
	}

	fmt.Printf("Tables dropped (prefix: %s)\n", prefix)
}
