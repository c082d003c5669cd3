package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/africarailways/ussd-gateway/internal/adapters/memstore"
	"github.com/africarailways/ussd-gateway/internal/domain"
)

const (
	keyPrefix   = "session:"
	dialTimeout = 5 * time.Second
	opTimeout   = 5 * time.Second
)

type record struct {
	Fields      domain.Fields `json:"fields"`
	LastUpdated string        `json:"last_updated"`
}

// Store is a Redis-backed session store with an in-process fallback. Every
// backing error degrades to the fallback instead of surfacing to callers:
// losing a USSD session is cheaper than failing the request.
type Store struct {
	log      *slog.Logger
	rdb      *redis.Client
	fallback *memstore.Store
}

// New connects to redisURL. An empty URL or a failed ping leaves the store
// running purely on the fallback.
func New(log *slog.Logger, redisURL string) *Store {
	s := &Store{log: log, fallback: memstore.New()}
	if redisURL == "" {
		log.Warn("REDIS_URL not configured, using in-process session store")
		return s
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.Error("invalid REDIS_URL, using in-process session store", "error", err)
		return s
	}
	opts.DialTimeout = dialTimeout
	opts.ReadTimeout = opTimeout
	opts.WriteTimeout = opTimeout

	rdb := redis.NewClient(opts)
	ctx, cancel := context.WithTimeout(context.Background(), dialTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Warn("redis unreachable, using in-process session store", "error", err)
		_ = rdb.Close()
		return s
	}

	log.Info("redis session store connected")
	s.rdb = rdb
	return s
}

func (s *Store) Get(ctx context.Context, sessionID string) (domain.Fields, error) {
	if s.rdb == nil {
		return s.fallback.Get(ctx, sessionID)
	}

	raw, err := s.rdb.Get(ctx, keyPrefix+sessionID).Result()
	if errors.Is(err, redis.Nil) {
		// Redis has no record, but a degraded write may have landed the
		// session in the fallback. Delete clears both sides, so nothing
		// stale can resurrect from here.
		return s.fallback.Get(ctx, sessionID)
	}
	if err != nil {
		s.log.Error("redis GET failed, trying fallback", "session", sessionID, "error", err)
		return s.fallback.Get(ctx, sessionID)
	}

	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil {
		// Unreadable entries are as good as absent; drop them.
		s.log.Warn("dropping unparsable session record", "session", sessionID, "error", err)
		_ = s.rdb.Del(ctx, keyPrefix+sessionID).Err()
		return domain.Fields{}, nil
	}
	if rec.Fields == nil {
		rec.Fields = domain.Fields{}
	}
	return rec.Fields, nil
}

func (s *Store) Set(ctx context.Context, sessionID string, fields domain.Fields, ttl time.Duration) error {
	if s.rdb == nil {
		return s.fallback.Set(ctx, sessionID, fields, ttl)
	}

	rec := record{Fields: fields, LastUpdated: time.Now().UTC().Format(time.RFC3339)}
	raw, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshal session %s: %w", sessionID, err)
	}

	if err := s.rdb.Set(ctx, keyPrefix+sessionID, raw, ttl).Err(); err != nil {
		s.log.Error("redis SET failed, using fallback", "session", sessionID, "error", err)
		return s.fallback.Set(ctx, sessionID, fields, ttl)
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, sessionID string) error {
	// Clear both sides: the entry may live in either after a blip.
	_ = s.fallback.Delete(ctx, sessionID)
	if s.rdb == nil {
		return nil
	}
	if err := s.rdb.Del(ctx, keyPrefix+sessionID).Err(); err != nil {
		s.log.Error("redis DEL failed", "session", sessionID, "error", err)
	}
	return nil
}

func (s *Store) Connected(ctx context.Context) bool {
	if s.rdb == nil {
		return false
	}
	pctx, cancel := context.WithTimeout(ctx, opTimeout)
	defer cancel()
	return s.rdb.Ping(pctx).Err() == nil
}

func (s *Store) Close() error {
	if s.rdb == nil {
		return nil
	}
	return s.rdb.Close()
}
