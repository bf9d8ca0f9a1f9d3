package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"

	_ "modernc.org/sqlite"
)

// OpenSQLite opens and initializes a SQLite-backed database at path.
// WAL mode and a busy timeout are enabled to tolerate the executor and
// supervisor processes writing concurrently; the connection pool is
// restricted to a single connection, since SQLite serializes writers
// at the file level regardless of Go-level pooling.
func OpenSQLite(ctx context.Context, path string) (*bun.DB, error) {
	dsn := fmt.Sprintf("file:%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", path)
	sqlDB, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	db := bun.NewDB(sqlDB, sqlitedialect.New())
	if err := InitDB(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("init db: %w", err)
	}
	return db, nil
}
