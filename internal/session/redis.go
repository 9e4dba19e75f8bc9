package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const maxUpdateRetries = 8

// RedisStore keeps records as JSON strings with a TTL, so several service
// replicas can share sessions. Update uses WATCH/MULTI and retries on
// conflicts.
type RedisStore struct {
	rdb    redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore wraps rdb. Keys are prefix + session id.
func NewRedisStore(rdb redis.UniversalClient, prefix string, ttl time.Duration) *RedisStore {
	return &RedisStore{rdb: rdb, prefix: prefix, ttl: ttl}
}

var _ Store = (*RedisStore)(nil)

func (s *RedisStore) key(id string) string {
	return s.prefix + id
}

func (s *RedisStore) Load(ctx context.Context, id string) (Record, error) {
	b, err := s.rdb.Get(ctx, s.key(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("session: redis get: %w", err)
	}
	return decode(b)
}

func (s *RedisStore) Save(ctx context.Context, id string, rec Record) error {
	b, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("session: encode: %w", err)
	}
	if err := s.rdb.Set(ctx, s.key(id), b, s.ttl).Err(); err != nil {
		return fmt.Errorf("session: redis set: %w", err)
	}
	return nil
}

func (s *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (Record, error) {
	key := s.key(id)
	var result Record

	txf := func(tx *redis.Tx) error {
		b, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		rec, err := decode(b)
		if err != nil {
			return err
		}
		if err := fn(&rec); err != nil {
			return err
		}
		encoded, err := json.Marshal(rec)
		if err != nil {
			return fmt.Errorf("session: encode: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, encoded, s.ttl)
			return nil
		})
		if err == nil {
			result = rec
		}
		return err
	}

	for attempt := 0; attempt < maxUpdateRetries; attempt++ {
		err := s.rdb.Watch(ctx, txf, key)
		if err == nil {
			return result, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return Record{}, err
	}
	return Record{}, fmt.Errorf("session: update %s: too many concurrent writers", id)
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	if err := s.rdb.Del(ctx, s.key(id)).Err(); err != nil {
		return fmt.Errorf("session: redis del: %w", err)
	}
	return nil
}

func decode(b []byte) (Record, error) {
	var rec Record
	if err := json.Unmarshal(b, &rec); err != nil {
		return Record{}, fmt.Errorf("session: decode: %w", err)
	}
	return rec, nil
}
