package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/jonathan/resume-builder/internal/db"
	"github.com/jonathan/resume-builder/internal/localdb"
	"github.com/jonathan/resume-builder/internal/resumes"
	"github.com/jonathan/resume-builder/internal/server"
)

// store is implemented by both the PostgreSQL and the SQLite backends
type store interface {
	resumes.Store
	server.UserStore
	EnsureSchema(ctx context.Context) error
}

func isPostgresDSN(dsn string) bool {
	return strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://")
}

// sqlitePath accepts a bare path, sqlite://path or a file: URI and returns
// the file path. URI query parameters are dropped since localdb.Open sets its own.
func sqlitePath(dsn string) string {
	p := strings.TrimPrefix(dsn, "sqlite://")
	if !strings.HasPrefix(p, "file:") {
		return p
	}
	p = strings.TrimPrefix(strings.TrimPrefix(p, "file:"), "//")
	p, _, _ = strings.Cut(p, "?")
	return p
}

// openStore connects to PostgreSQL for postgres:// URLs and otherwise opens
// dsn as a SQLite database. The returned func releases the connection.
func openStore(ctx context.Context, dsn string) (store, func(), error) {
	if isPostgresDSN(dsn) {
		pg, err := db.Connect(ctx, dsn)
		if err != nil {
			return nil, nil, err
		}
		return pg, pg.Close, nil
	}

	lite, err := localdb.Open(sqlitePath(dsn))
	if err != nil {
		return nil, nil, err
	}
	return lite, func() { _ = lite.Close() }, nil
}

// openMigrated opens the configured store and makes sure its tables exist
func openMigrated(ctx context.Context, dsn string) (store, func(), error) {
	st, closeFn, err := openStore(ctx, dsn)
	if err != nil {
		return nil, nil, err
	}
	if err := st.EnsureSchema(ctx); err != nil {
		closeFn()
		return nil, nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return st, closeFn, nil
}
