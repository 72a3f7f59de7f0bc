// Package storagetest opens throwaway, fully migrated SQLite gateways for tests.
package storagetest

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/dmitrijs2005/gophdiary/internal/server/migrations"
	"github.com/dmitrijs2005/gophdiary/internal/server/storage"
	"github.com/pressly/goose/v3"
)

// OpenSQLite creates a file-backed SQLite database in t.TempDir, applies the
// embedded migrations and returns a gateway over it. The pool is limited to a
// single connection unless opts says otherwise.
func OpenSQLite(t testing.TB, opts storage.Options) *storage.Gateway {
	t.Helper()

	opts.Driver = storage.DriverSQLite
	if opts.MaxOpenConns == 0 {
		opts.MaxOpenConns = 1
	}

	dsn := "file:" + filepath.Join(t.TempDir(), "diary.db") +
		"?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)&_time_format=sqlite&_txlock=immediate"

	db, err := sql.Open(storage.DriverSQLite, dsn)
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		t.Fatalf("goose dialect: %v", err)
	}
	if err := goose.UpContext(context.Background(), db, migrations.SQLiteDir); err != nil {
		t.Fatalf("migrate: %v", err)
	}

	return storage.New(db, opts)
}
