package store

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"stitchSightAi/internal/analysis"
)

// MemoryStore caches analyses in process memory, used when a database is
// not configured. TTL handling is delegated to go-cache.
type MemoryStore struct {
	cache *gocache.Cache
	ttl   time.Duration
}

// NewMemoryStore constructs an empty in-memory analysis cache.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		cache: gocache.New(ttl, time.Hour),
		ttl:   ttl,
	}
}

// Get returns the cached analysis for the URL, or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, imageURL string) (CachedAnalysis, error) {
	value, ok := s.cache.Get(Digest(imageURL))
	if !ok {
		return CachedAnalysis{}, ErrNotFound
	}
	cached, ok := value.(CachedAnalysis)
	if !ok {
		return CachedAnalysis{}, ErrNotFound
	}
	// go-cache never expires entries stored with a non-positive TTL, so an
	// already-expired ExpiresAt has to be enforced here.
	if !cached.Meta.ExpiresAt.IsZero() && !cached.Meta.ExpiresAt.After(time.Now()) {
		s.cache.Delete(Digest(imageURL))
		return CachedAnalysis{}, ErrNotFound
	}
	return cached, nil
}

// Put upserts the analysis keyed by the URL digest, last write wins.
func (s *MemoryStore) Put(_ context.Context, imageURL string, a analysis.ImageAnalysis, meta Meta) error {
	if meta.ExpiresAt.IsZero() {
		meta.ExpiresAt = time.Now().Add(s.ttl)
	}
	s.cache.Set(Digest(imageURL), CachedAnalysis{
		ImageURL: imageURL,
		Digest:   Digest(imageURL),
		Analysis: a,
		Meta:     meta,
	}, time.Until(meta.ExpiresAt))
	return nil
}

// Prune drops expired entries and reports how many were removed.
func (s *MemoryStore) Prune(_ context.Context) (int, error) {
	before := s.cache.ItemCount()
	s.cache.DeleteExpired()
	return before - s.cache.ItemCount(), nil
}

// Close satisfies the Store interface.
func (s *MemoryStore) Close() {}
