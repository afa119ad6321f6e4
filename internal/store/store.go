package store

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"stitchSightAi/internal/analysis"
)

// ErrNotFound indicates that no cached analysis exists for an image URL.
var ErrNotFound = errors.New("analysis not found")

// DefaultTTL is the retention window for cached analyses. Expired rows
// are treated as misses on read; physical deletion is the reaper's job.
const DefaultTTL = 30 * 24 * time.Hour

// Meta records how a cached analysis was produced.
type Meta struct {
	Model            string        `json:"model"`
	PromptTokens     int           `json:"prompt_tokens,omitempty"`
	CompletionTokens int           `json:"completion_tokens,omitempty"`
	Latency          time.Duration `json:"latency,omitempty"`
	ExpiresAt        time.Time     `json:"expires_at"`
}

// CachedAnalysis pairs an analysis with its cache bookkeeping.
type CachedAnalysis struct {
	ImageURL string                 `json:"image_url"`
	Digest   string                 `json:"digest"`
	Analysis analysis.ImageAnalysis `json:"analysis"`
	Meta     Meta                   `json:"meta"`
}

// Store is the analysis cache gateway. It is advisory: callers treat any
// error as a miss and recompute rather than fail the request.
type Store interface {
	Get(ctx context.Context, imageURL string) (CachedAnalysis, error)
	Put(ctx context.Context, imageURL string, a analysis.ImageAnalysis, meta Meta) error
	Prune(ctx context.Context) (int, error)
	Close()
}

// Digest returns the deterministic cache key for an image URL.
func Digest(imageURL string) string {
	sum := sha256.Sum256([]byte(strings.TrimSpace(imageURL)))
	return hex.EncodeToString(sum[:])
}

// NewStore selects a backing store based on whether a database URL is
// provided, mirroring how the rest of the service picks Postgres over
// the in-memory fallback.
func NewStore(ctx context.Context, databaseURL string, ttl time.Duration) (Store, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if databaseURL == "" {
		return NewMemoryStore(ttl), nil
	}

	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("store: create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("store: ping database: %w", err)
	}
	if err := ensureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, err
	}
	return &PostgresStore{pool: pool, ttl: ttl}, nil
}

func ensureSchema(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `CREATE TABLE IF NOT EXISTS image_analyses (
        digest TEXT PRIMARY KEY,
        image_url TEXT NOT NULL,
        analysis JSONB NOT NULL,
        model TEXT,
        prompt_tokens INTEGER,
        completion_tokens INTEGER,
        latency_ms BIGINT,
        expires_at TIMESTAMPTZ NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    )`)
	if err != nil {
		return fmt.Errorf("store: create image_analyses table: %w", err)
	}
	return nil
}
