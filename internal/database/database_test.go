package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/playperu/picmatch/internal/database"
)

func TestOpenMemorySharesData(t *testing.T) {
	ctx := context.Background()
	db, err := database.Open(ctx, database.Memory)
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := db.ExecContext(ctx, `CREATE TABLE t (v INTEGER)`); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := db.ExecContext(ctx, `INSERT INTO t (v) VALUES (1)`); err != nil {
		t.Fatalf("insert: %v", err)
	}

	var n int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM t`).Scan(&n); err != nil {
		t.Fatalf("count: %v", err)
	}
	if n != 1 {
		t.Errorf("count = %d, want 1", n)
	}
}

func TestOpenInDirCreatesDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested", "data")

	db, err := database.OpenInDir(context.Background(), dir, "scores")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(filepath.Join(dir, "scores.db")); err != nil {
		t.Errorf("database file missing: %v", err)
	}
}
