// Package storage provides persistence backends for workspace layouts.
//
// Every backend stores one opaque JSON payload per workspace id and satisfies
// [Repository], which the layout store consumes as its persistence port.
//
// # Backends
//
//   - memory: process-local map, for tests and throwaway sessions
//   - file:   one JSON file per workspace in a directory
//   - sqlite: a single-table SQLite database (modernc.org/sqlite, no cgo)
//   - redis:  one string key per workspace
//   - mongo:  one document per workspace
//   - http:   a remote layout endpoint speaking the GET/POST envelope contract
//
// Use [Open] to construct a backend from a [Config].
//
// A missing layout is reported with an error carrying errors.ErrCodeNotFound;
// check it with [IsNotFound].
package storage

import (
	"context"
	"time"

	"github.com/matzehuels/freeboard/pkg/errors"
)

// Repository stores layout payloads keyed by workspace id.
type Repository interface {
	// Get returns the stored payload. A workspace without a layout yields
	// an error for which IsNotFound is true.
	Get(ctx context.Context, workspaceID string) ([]byte, error)

	// Put replaces the stored payload.
	Put(ctx context.Context, workspaceID string, data []byte) error

	// Close releases connections held by the backend.
	Close() error
}

// Backend names accepted by Open.
const (
	BackendMemory = "memory"
	BackendFile   = "file"
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMongo  = "mongo"
	BackendHTTP   = "http"
)

// Config selects and configures a backend.
type Config struct {
	Backend    string        `toml:"backend"`
	Path       string        `toml:"path"`       // file directory or sqlite database
	URL        string        `toml:"url"`        // redis://, mongodb:// or http(s):// endpoint
	Database   string        `toml:"database"`   // mongo database
	Collection string        `toml:"collection"` // mongo collection
	Prefix     string        `toml:"prefix"`     // redis key prefix
	Timeout    time.Duration `toml:"timeout"`    // http and connect timeout
}

// Open constructs the backend named by cfg.Backend.
func Open(ctx context.Context, cfg Config) (Repository, error) {
	switch cfg.Backend {
	case "", BackendMemory:
		return NewMemory(), nil
	case BackendFile:
		return NewFile(cfg.Path)
	case BackendSQLite:
		return NewSQLite(ctx, cfg.Path)
	case BackendRedis:
		r, err := NewRedis(ctx, cfg.URL, cfg.Prefix)
		if err != nil {
			return nil, err
		}
		return WithRetry(r), nil
	case BackendMongo:
		m, err := NewMongo(ctx, cfg.URL, cfg.Database, cfg.Collection)
		if err != nil {
			return nil, err
		}
		return WithRetry(m), nil
	case BackendHTTP:
		h, err := NewHTTP(cfg.URL, cfg.Timeout)
		if err != nil {
			return nil, err
		}
		return WithRetry(h), nil
	default:
		return nil, errors.New(errors.ErrCodeUnsupported, "unknown storage backend %q", cfg.Backend)
	}
}

// IsNotFound reports whether err means the workspace has no stored layout.
func IsNotFound(err error) bool {
	return errors.Is(err, errors.ErrCodeNotFound)
}

func notFound(workspaceID string) error {
	return errors.New(errors.ErrCodeNotFound, "no layout stored for workspace %s", workspaceID)
}

func connectErr(err error, backend string) error {
	return errors.Wrap(errors.ErrCodeStorage, err, "connect %s", backend)
}

func storageErr(err error, op, workspaceID string) error {
	return errors.Wrap(errors.ErrCodeStorage, err, "%s layout %s", op, workspaceID)
}
