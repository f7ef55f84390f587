package storage

import (
	"fmt"
	"strings"
	"time"

	"github.com/Adda-Baaj/khobor-archiver/internal/domain"
)

// Package storage persists crawl results: JSON array files and an optional
// bbolt run store.

// Store keeps the records of past crawl runs keyed by run id.
type Store interface {
	Close() error
	SaveRun(runID string, records []domain.ArticleRecord) error
	LoadRun(runID string) ([]domain.ArticleRecord, bool, error)
}

// Options controls retention characteristics for concrete store implementations.
type Options struct {
	RunTTL          time.Duration
	CleanupInterval time.Duration
}

const (
	defaultRunTTL          = 30 * 24 * time.Hour
	defaultCleanupInterval = 12 * time.Hour
)

// NewStore creates the configured storage backend.
func NewStore(typ, path string, opts Options) (Store, error) {
	typ = strings.TrimSpace(strings.ToLower(typ))
	opts = normalizeOptions(opts)

	switch typ {
	case "", "none", "disabled":
		return noopStore{}, nil
	case "bbolt":
		if strings.TrimSpace(path) == "" {
			return nil, fmt.Errorf("bbolt storage requires a path")
		}
		return openBolt(path, opts)
	default:
		return nil, fmt.Errorf("unsupported storage type %q", typ)
	}
}

func normalizeOptions(opts Options) Options {
	if opts.RunTTL <= 0 {
		opts.RunTTL = defaultRunTTL
	}
	if opts.CleanupInterval <= 0 {
		opts.CleanupInterval = defaultCleanupInterval
	}
	return opts
}

type noopStore struct{}

func (noopStore) Close() error                                         { return nil }
func (noopStore) SaveRun(string, []domain.ArticleRecord) error         { return nil }
func (noopStore) LoadRun(string) ([]domain.ArticleRecord, bool, error) { return nil, false, nil }
