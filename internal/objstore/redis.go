package objstore

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const scanBatch = 256

// Redis keeps each object as a string value under prefix+name.
type Redis struct {
	rdb    *redis.Client
	prefix string
}

func NewRedis(rdb *redis.Client, prefix string) *Redis {
	return &Redis{rdb: rdb, prefix: prefix}
}

func (s *Redis) List(ctx context.Context) ([]ObjectID, error) {
	var ids []ObjectID
	iter := s.rdb.Scan(ctx, 0, s.prefix+"*", scanBatch).Iterator()
	for iter.Next(ctx) {
		ids = append(ids, ObjectID(strings.TrimPrefix(iter.Val(), s.prefix)))
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan %s*: %w", s.prefix, err)
	}
	sortIDs(ids)
	return ids, nil
}

func (s *Redis) Fetch(ctx context.Context, id ObjectID) ([]byte, error) {
	b, err := s.rdb.Get(ctx, s.prefix+string(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return b, err
}

// Put stores an object. The audit itself only reads; Put exists for
// seeding a keyspace.
func (s *Redis) Put(ctx context.Context, id ObjectID, body []byte) error {
	return s.rdb.Set(ctx, s.prefix+string(id), body, 0).Err()
}
