package repository

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

type redisStore struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisBlobStore stores each blob as a plain string key under prefix.
// PutMany runs inside MULTI/EXEC so readers never observe a half-written state.
func NewRedisBlobStore(rdb *redis.Client, prefix string) BlobStore {
	return &redisStore{rdb: rdb, prefix: prefix}
}

func (s *redisStore) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrBlobNotFound
	}
	return b, err
}

func (s *redisStore) PutMany(ctx context.Context, blobs map[string][]byte) error {
	if len(blobs) == 0 {
		return nil
	}
	_, err := s.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		for k, v := range blobs {
			pipe.Set(ctx, s.prefix+k, v, 0)
		}
		return nil
	})
	return err
}

func (s *redisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}
