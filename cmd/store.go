package cmd

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/uptrace/bun"

	"github.com/queuectl/queuectl/store"
)

func openStore(ctx context.Context, dir string) (*store.Store, *bun.DB, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, nil, fmt.Errorf("creating data dir: %w", err)
	}
	db, err := store.OpenSQLite(ctx, filepath.Join(dir, "queuectl.db"))
	if err != nil {
		return nil, nil, err
	}
	return store.NewStore(db, filepath.Join(dir, "logs")), db, nil
}
