// Package store holds the station catalog currently being served.
package store

import (
	"context"
	"sync"
	"time"

	"github.com/brubcam/GEOG-464-Lab-8/catalog"
	"github.com/brubcam/GEOG-464-Lab-8/metrics"
)

// Let's talk about the concurrency model:
//   - A *catalog.Catalog is immutable once built.
//   - The Store only ever swaps the pointer, under its RWMutex.
//
// Readers therefore take the current catalog and may keep using it after a
// reload; they simply see the previous generation. A handshake agreement
// exists where callers treat returned stations and slices as "deep frozen".
type Store struct {
	catalog  *catalog.Catalog
	source   string
	loadedAt time.Time
	mu       sync.RWMutex
}

// New creates an empty store. IsReady reports false until Replace is called.
func New() *Store {
	return &Store{}
}

// NewFromCatalog creates a store already serving c.
func NewFromCatalog(c *catalog.Catalog, source string) *Store {
	s := New()
	s.Replace(c, source)
	return s
}

// Opener is satisfied by *catalog.Loader.
type Opener interface {
	Open(ctx context.Context, source string) (*catalog.Catalog, error)
}

// Load opens source with o and installs the result. On failure the current
// catalog, if any, is kept.
func (s *Store) Load(ctx context.Context, o Opener, source string) (*catalog.Catalog, time.Duration, error) {
	start := time.Now()
	c, err := o.Open(ctx, source)
	if err != nil {
		return nil, time.Since(start), err
	}
	s.Replace(c, source)
	return c, time.Since(start), nil
}

// Replace installs c as the served catalog.
func (s *Store) Replace(c *catalog.Catalog, source string) {
	if c == nil {
		return
	}

	s.mu.Lock()
	s.catalog = c
	s.source = source
	s.loadedAt = time.Now()
	s.mu.Unlock()

	metrics.RecordCatalog(c.Len(), c.Skipped)
}

// Catalog returns the current catalog, or nil before the first load.
func (s *Store) Catalog() *catalog.Catalog {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.catalog
}

func (s *Store) Get(id string) (catalog.Station, bool) {
	return s.Catalog().Get(id)
}

// Stations returns the stations in source order. The slice must not be modified.
func (s *Store) Stations() []catalog.Station {
	c := s.Catalog()
	if c == nil {
		return []catalog.Station{}
	}
	return c.Stations
}

func (s *Store) ETag() string {
	c := s.Catalog()
	if c == nil {
		return ""
	}
	return c.ETag
}

func (s *Store) IsReady() bool {
	return s.Catalog() != nil
}

func (s *Store) Source() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.source
}

func (s *Store) LoadedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadedAt
}
