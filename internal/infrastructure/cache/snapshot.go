package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"evexpert-backend/internal/domain"

	"github.com/redis/go-redis/v9"
)

const (
	// SnapshotKey holds the JSON-encoded raw listing snapshot.
	SnapshotKey = "garage:snapshot"
	// GenerationKey is bumped by every Invalidate. A snapshot read from the
	// database is only stored if the generation has not moved since.
	GenerationKey = "garage:snapshot:gen"
)

// Open parses a redis:// URL and returns a client. The connection is lazy.
func Open(redisURL string) (*redis.Client, error) {
	opt, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	return redis.NewClient(opt), nil
}

// Snapshot caches the raw listing snapshot in Redis for TTL.
type Snapshot struct {
	Rdb *redis.Client
	TTL time.Duration
}

// Load returns the cached snapshot; ok is false on a miss.
func (s *Snapshot) Load(ctx context.Context) ([]domain.Listing, bool, error) {
	b, err := s.Rdb.Get(ctx, SnapshotKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var listings []domain.Listing
	if err := json.Unmarshal(b, &listings); err != nil {
		// A corrupt entry is a miss; the next Store overwrites it.
		return nil, false, nil
	}
	return listings, true, nil
}

// Generation returns the current invalidation generation (0 if never bumped).
func (s *Snapshot) Generation(ctx context.Context) (int64, error) {
	return generation(ctx, s.Rdb)
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func generation(ctx context.Context, c getter) (int64, error) {
	gen, err := c.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Store replaces the cached snapshot if the generation still equals gen.
// A snapshot read before a mutation is dropped silently.
func (s *Snapshot) Store(ctx context.Context, gen int64, listings []domain.Listing) error {
	if listings == nil {
		listings = []domain.Listing{}
	}
	b, err := json.Marshal(listings)
	if err != nil {
		return err
	}
	err = s.Rdb.Watch(ctx, func(tx *redis.Tx) error {
		cur, err := generation(ctx, tx)
		if err != nil {
			return err
		}
		if cur != gen {
			return nil
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, SnapshotKey, b, s.TTL)
			return nil
		})
		return err
	}, GenerationKey)
	if errors.Is(err, redis.TxFailedErr) {
		// Invalidated between the check and the write.
		return nil
	}
	return err
}

// Invalidate bumps the generation and drops the cached snapshot.
func (s *Snapshot) Invalidate(ctx context.Context) error {
	_, err := s.Rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, SnapshotKey)
		return nil
	})
	return err
}
