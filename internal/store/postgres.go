package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"stitchSightAi/internal/analysis"
)

// PostgresStore persists cached analyses in PostgreSQL.
type PostgresStore struct {
	pool *pgxpool.Pool
	ttl  time.Duration
}

// Get loads a cached analysis; expired rows count as misses.
func (s *PostgresStore) Get(ctx context.Context, imageURL string) (CachedAnalysis, error) {
	digest := Digest(imageURL)

	var (
		raw       []byte
		cached    CachedAnalysis
		latencyMS int64
	)
	err := s.pool.QueryRow(ctx,
		`SELECT image_url, analysis, COALESCE(model, ''), COALESCE(prompt_tokens, 0),
                COALESCE(completion_tokens, 0), COALESCE(latency_ms, 0), expires_at
         FROM image_analyses WHERE digest = $1 AND expires_at > now()`,
		digest,
	).Scan(&cached.ImageURL, &raw, &cached.Meta.Model, &cached.Meta.PromptTokens,
		&cached.Meta.CompletionTokens, &latencyMS, &cached.Meta.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return CachedAnalysis{}, ErrNotFound
		}
		return CachedAnalysis{}, fmt.Errorf("store: query analysis: %w", err)
	}

	var a analysis.ImageAnalysis
	if err := json.Unmarshal(raw, &a); err != nil {
		return CachedAnalysis{}, fmt.Errorf("store: decode analysis: %w", err)
	}
	cached.Digest = digest
	cached.Analysis = a
	cached.Meta.Latency = time.Duration(latencyMS) * time.Millisecond
	return cached, nil
}

// Put upserts the analysis keyed by URL digest, last write wins.
func (s *PostgresStore) Put(ctx context.Context, imageURL string, a analysis.ImageAnalysis, meta Meta) error {
	raw, err := json.Marshal(a)
	if err != nil {
		return fmt.Errorf("store: encode analysis: %w", err)
	}
	if meta.ExpiresAt.IsZero() {
		meta.ExpiresAt = time.Now().Add(s.ttl)
	}

	if _, err := s.pool.Exec(ctx,
		`INSERT INTO image_analyses (digest, image_url, analysis, model, prompt_tokens, completion_tokens, latency_ms, expires_at)
         VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
         ON CONFLICT (digest) DO UPDATE SET
             image_url = EXCLUDED.image_url,
             analysis = EXCLUDED.analysis,
             model = EXCLUDED.model,
             prompt_tokens = EXCLUDED.prompt_tokens,
             completion_tokens = EXCLUDED.completion_tokens,
             latency_ms = EXCLUDED.latency_ms,
             expires_at = EXCLUDED.expires_at,
             created_at = now()`,
		Digest(imageURL), imageURL, raw, meta.Model, meta.PromptTokens,
		meta.CompletionTokens, meta.Latency.Milliseconds(), meta.ExpiresAt); err != nil {
		return fmt.Errorf("store: upsert analysis: %w", err)
	}
	return nil
}

// Prune deletes expired rows, returning the number removed.
func (s *PostgresStore) Prune(ctx context.Context) (int, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM image_analyses WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("store: prune analyses: %w", err)
	}
	return int(tag.RowsAffected()), nil
}

// Close releases database resources.
func (s *PostgresStore) Close() {
	if s.pool != nil {
		s.pool.Close()
	}
}
