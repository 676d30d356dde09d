package db

import (
	"context"
	"strings"
	"time"

	"notesbot/bots/NotesBot/notes"

	"github.com/pkg/errors"
)

const (
	DriverFile     = "file"
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	defaultPath = "notes.json"
)

// Storage keeps the latest snapshot of the notes. Load returns an empty
// snapshot if nothing has been saved yet.
type Storage interface {
	notes.Saver
	Load(ctx context.Context) (notes.Snapshot, error)
	Close() error
}

// Config selects and configures a storage
type Config struct {
	Driver  string        `mapstructure:"driver"`
	Path    string        `mapstructure:"path"` // file and sqlite
	DSN     string        `mapstructure:"dsn"`  // postgres
	Timeout time.Duration `mapstructure:"timeout"`
}

// Open creates the storage named by cfg.Driver. The file storage is the
// default.
func Open(ctx context.Context, cfg Config) (Storage, error) {
	path := cfg.Path
	if path == "" {
		path = defaultPath
	}

	switch strings.ToLower(cfg.Driver) {
	case "", DriverFile:
		return NewFile(path), nil
	case DriverPostgres:
		// connection string should look like postgresql://localhost:5432/notes?user=admn&password=passwd
		return NewPG(ctx, cfg.DSN, cfg.Timeout)
	case DriverSQLite:
		return NewSQLite(ctx, path, cfg.Timeout)
	}

	return nil, errors.Errorf("unknown storage driver %q", cfg.Driver)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
