// CLI tool to run pending database migrations from db/.
// Checks the migrations table to skip already-applied files.
// Wraps each migration + record insert in a single transaction.
// Usage: go run ./cmd/migrate [-dir db] [-dry-run] (from the repo root)
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
)

func main() {
	dbDir := flag.String("dir", "db", "directory containing *.sql migrations")
	dryRun := flag.Bool("dry-run", false, "list pending migrations without applying them")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		fmt.Fprintf(os.Stderr, "Error loading .env: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := pgx.Connect(ctx, os.Getenv("DB_URL"))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Unable to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	files, err := filepath.Glob(filepath.Join(*dbDir, "*.sql"))
	if err != nil || len(files) == 0 {
		fmt.Fprintf(os.Stderr, "No migration files found in %s\n", *dbDir)
		os.Exit(1)
	}

	applied := appliedMigrations(ctx, conn)
	pending := pendingMigrations(files, applied)
	sort.Strings(files)
	for _, f := range files {
		if applied[filepath.Base(f)] {
			fmt.Printf("  skip: %s\n", filepath.Base(f))
		}
	}

	for _, f := range pending {
		filename := filepath.Base(f)
		if *dryRun {
			fmt.Printf("  pending: %s (%s)\n", filename, descriptionFromFilename(filename))
			continue
		}
		if err := applyMigration(ctx, conn, f); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("  applied: %s\n", filename)
	}

	switch {
	case len(pending) == 0:
		fmt.Println("No pending migrations.")
	case *dryRun:
		fmt.Printf("\n%d migration(s) pending.\n", len(pending))
	default:
		fmt.Printf("\n%d migration(s) applied.\n", len(pending))
	}
}

// appliedMigrations reads the migrations table. Before the first migration
// runs the table does not exist, which reads as nothing applied.
func appliedMigrations(ctx context.Context, conn *pgx.Conn) map[string]bool {
	applied := make(map[string]bool)
	rows, err := conn.Query(ctx, "SELECT migration FROM migrations")
	if err != nil {
		return applied
	}
	defer rows.Close()
	for rows.Next() {
		var name string
		if rows.Scan(&name) == nil {
			applied[name] = true
		}
	}
	return applied
}

// pendingMigrations returns the files not yet applied, sorted by name so the
// date prefix sets the order.
func pendingMigrations(files []string, applied map[string]bool) []string {
	var pending []string
	for _, f := range files {
		if !applied[filepath.Base(f)] {
			pending = append(pending, f)
		}
	}
	sort.Strings(pending)
	return pending
}

// applyMigration runs one file and records it in the same transaction.
func applyMigration(ctx context.Context, conn *pgx.Conn, path string) error {
	filename := filepath.Base(path)
	content, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", filename, err)
	}

	tx, err := conn.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin %s: %w", filename, err)
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(content)); err != nil {
		return fmt.Errorf("run %s: %w", filename, err)
	}
	if _, err := tx.Exec(ctx,
		"INSERT INTO migrations (migration, description) VALUES ($1, $2)",
		filename, descriptionFromFilename(filename)); err != nil {
		return fmt.Errorf("record %s: %w", filename, err)
	}
	return tx.Commit(ctx)
}

var migrationPrefix = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}-\d{3}-`)

// descriptionFromFilename strips the YYYY-MM-DD-NNN- prefix and .sql suffix.
func descriptionFromFilename(filename string) string {
	name := migrationPrefix.ReplaceAllString(strings.TrimSuffix(filename, ".sql"), "")
	return strings.ReplaceAll(name, "-", " ")
}
