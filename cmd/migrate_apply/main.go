// Command migrate_apply applies the SQL files under internal/migrations in
// lexical order. Applied files are recorded in schema_migrations so a rerun
// only picks up what is new; without -apply it lists the pending files.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"
)

const trackingTable = `CREATE TABLE IF NOT EXISTS schema_migrations (
	name       TEXT PRIMARY KEY,
	applied_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

func main() {
	apply := flag.Bool("apply", false, "apply pending migrations instead of listing them")
	dir := flag.String("dir", filepath.Join("internal", "migrations"), "migrations directory")
	flag.Parse()

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := pgxpool.New(ctx, dsn)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if _, err := db.Exec(ctx, trackingTable); err != nil {
		log.Fatalf("ensure schema_migrations: %v", err)
	}

	applied, err := appliedSet(ctx, db)
	if err != nil {
		log.Fatalf("read schema_migrations: %v", err)
	}

	entries, err := os.ReadDir(*dir)
	if err != nil {
		log.Fatalf("read migrations dir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}

	for _, name := range pending(names, applied) {
		if !*apply {
			fmt.Printf("pending %s\n", name)
			continue
		}
		if err := applyOne(ctx, db, filepath.Join(*dir, name), name); err != nil {
			log.Fatalf("failed to apply %s: %v", name, err)
		}
		fmt.Printf("applied %s\n", name)
	}
}

// pending filters names down to unapplied .sql files, sorted lexically.
func pending(names []string, applied map[string]bool) []string {
	var out []string
	for _, name := range names {
		if !strings.HasSuffix(name, ".sql") || applied[name] {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}

func appliedSet(ctx context.Context, db *pgxpool.Pool) (map[string]bool, error) {
	rows, err := db.Query(ctx, `SELECT name FROM schema_migrations`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	applied := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		applied[name] = true
	}
	return applied, rows.Err()
}

// applyOne runs the file and records it in schema_migrations in one
// transaction, so a half-applied file never counts as done.
func applyOne(ctx context.Context, db *pgxpool.Pool, path, name string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx, string(b)); err != nil {
		return err
	}
	if _, err := tx.Exec(ctx, `INSERT INTO schema_migrations (name) VALUES ($1)`, name); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
