package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/tuanvumaihuynh/catalog-pricing/internal/config"
)

var _ RecordCache = (*RedisCache)(nil)

// NewRedisClient creates a redis client and checks the connection.
func NewRedisClient(ctx context.Context, cfg config.Redis) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Username:     cfg.Username,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  cfg.Timeout,
		ReadTimeout:  cfg.Timeout,
		WriteTimeout: cfg.Timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return client, nil
}

// RedisCache stores records as JSON in a hash keyed by id, and keeps the
// insertion order in a list of ids.
type RedisCache struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisCache(client redis.UniversalClient, prefix string) *RedisCache {
	return &RedisCache{client: client, prefix: prefix}
}

func (c *RedisCache) idsKey() string {
	return c.prefix + ":record_ids"
}

func (c *RedisCache) recordsKey() string {
	return c.prefix + ":records"
}

func (c *RedisCache) List(ctx context.Context) ([]Record, error) {
	ids, err := c.client.LRange(ctx, c.idsKey(), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("redis lrange: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}

	values, err := c.client.HMGet(ctx, c.recordsKey(), ids...).Result()
	if err != nil {
		return nil, fmt.Errorf("redis hmget: %w", err)
	}

	records := make([]Record, 0, len(values))
	for i, v := range values {
		s, ok := v.(string)
		if !ok {
			return nil, fmt.Errorf("record %s missing from %s", ids[i], c.recordsKey())
		}

		var r Record
		if err := json.Unmarshal([]byte(s), &r); err != nil {
			return nil, fmt.Errorf("decode record %s: %w", ids[i], err)
		}
		records = append(records, r)
	}

	return records, nil
}

func (c *RedisCache) Get(ctx context.Context, id int64) (Record, error) {
	s, err := c.client.HGet(ctx, c.recordsKey(), strconv.FormatInt(id, 10)).Result()
	if errors.Is(err, redis.Nil) {
		return Record{}, fmt.Errorf("product %d: %w", id, ErrRecordNotFound)
	}
	if err != nil {
		return Record{}, fmt.Errorf("redis hget: %w", err)
	}

	var r Record
	if err := json.Unmarshal([]byte(s), &r); err != nil {
		return Record{}, fmt.Errorf("decode record %d: %w", id, err)
	}

	return r, nil
}

// putScript writes the record and appends its id to the order list only when
// the id is new, so the hash and the list never disagree.
var putScript = redis.NewScript(`
if redis.call('HSETNX', KEYS[1], ARGV[1], ARGV[2]) == 1 then
	redis.call('RPUSH', KEYS[2], ARGV[1])
	return 1
end
redis.call('HSET', KEYS[1], ARGV[1], ARGV[2])
return 0
`)

func (c *RedisCache) Put(ctx context.Context, record Record) error {
	data, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode record %d: %w", record.ID, err)
	}

	keys := []string{c.recordsKey(), c.idsKey()}
	if err := putScript.Run(ctx, c.client, keys, strconv.FormatInt(record.ID, 10), data).Err(); err != nil {
		return fmt.Errorf("redis put record %d: %w", record.ID, err)
	}

	return nil
}

func (c *RedisCache) ReplaceAll(ctx context.Context, records []Record) error {
	records = DedupeRecords(records)

	ids := make([]any, 0, len(records))
	fields := make([]any, 0, 2*len(records))
	for _, r := range records {
		data, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("encode record %d: %w", r.ID, err)
		}

		field := strconv.FormatInt(r.ID, 10)
		ids = append(ids, field)
		fields = append(fields, field, data)
	}

	if _, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, c.idsKey(), c.recordsKey())
		if len(records) > 0 {
			pipe.HSet(ctx, c.recordsKey(), fields...)
			pipe.RPush(ctx, c.idsKey(), ids...)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("redis replace records: %w", err)
	}

	return nil
}

func (c *RedisCache) Len(ctx context.Context) (int, error) {
	n, err := c.client.LLen(ctx, c.idsKey()).Result()
	if err != nil {
		return 0, fmt.Errorf("redis llen: %w", err)
	}
	return int(n), nil
}
