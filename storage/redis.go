package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/designhawk/techcrunch/config"
	"github.com/designhawk/techcrunch/types"
)

const redisKeyPrefix = "digest:"

// RedisStore keeps digest records as JSON values under "digest:<date>" keys.
type RedisStore struct {
	client *redis.Client
	addr   string
}

// NewRedisStore connects to Redis and verifies the connection with a ping.
func NewRedisStore(ctx context.Context, cfg config.Redis) (*RedisStore, error) {
	addr := cfg.Addr
	if addr == "" {
		addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis at %s: %w", addr, err)
	}

	return &RedisStore{client: client, addr: addr}, nil
}

func redisKey(date string) string {
	return redisKeyPrefix + date
}

// Save stores the digest record, replacing any existing value for the date.
func (s *RedisStore) Save(ctx context.Context, digest types.DailyDigest) error {
	data, err := json.Marshal(digest)
	if err != nil {
		return fmt.Errorf("failed to encode digest %s: %w", digest.Date, err)
	}
	if err := s.client.Set(ctx, redisKey(digest.Date), data, 0).Err(); err != nil {
		return fmt.Errorf("failed to store digest %s: %w", digest.Date, err)
	}
	return nil
}

// Load fetches and decodes the digest for a date, or ErrNotFound.
func (s *RedisStore) Load(ctx context.Context, date string) (types.DailyDigest, error) {
	data, err := s.client.Get(ctx, redisKey(date)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return types.DailyDigest{}, fmt.Errorf("%w: %s", ErrNotFound, date)
		}
		return types.DailyDigest{}, fmt.Errorf("failed to get digest %s: %w", date, err)
	}

	var digest types.DailyDigest
	if err := json.Unmarshal(data, &digest); err != nil {
		return types.DailyDigest{}, fmt.Errorf("failed to decode digest %s: %w", date, err)
	}
	return digest, nil
}

// ListDates scans for digest keys and returns their dates, most recent first.
func (s *RedisStore) ListDates(ctx context.Context) ([]string, error) {
	var dates []string

	iter := s.client.Scan(ctx, 0, redisKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		date := strings.TrimPrefix(iter.Val(), redisKeyPrefix)
		if date != "" {
			dates = append(dates, date)
		}
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan digests: %w", err)
	}

	sortDatesDesc(dates)
	return dates, nil
}

// Latest returns the most recent digest, or ErrNotFound when none exist.
func (s *RedisStore) Latest(ctx context.Context) (types.DailyDigest, error) {
	return latestFrom(ctx, s)
}

// Delete removes the digest for a date, or ErrNotFound.
func (s *RedisStore) Delete(ctx context.Context, date string) error {
	n, err := s.client.Del(ctx, redisKey(date)).Result()
	if err != nil {
		return fmt.Errorf("failed to delete digest %s: %w", date, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, date)
	}
	return nil
}

// Stats reports how many digests are stored and where.
func (s *RedisStore) Stats(ctx context.Context) (Stats, error) {
	dates, err := s.ListDates(ctx)
	if err != nil {
		return Stats{}, err
	}
	st := Stats{TotalDigests: len(dates), Location: "redis://" + s.addr}
	if len(dates) > 0 {
		st.LatestDate = dates[0]
	}
	return st, nil
}
