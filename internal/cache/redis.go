package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// Logger интерфейс для логирования
type Logger interface {
	Warn(format string, v ...interface{})
}

// RedisCache кеш ответов планировщика в Redis
// Ошибки Redis не фатальны: промах кеша всегда допустим, ответ пересчитается
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
	log    Logger
}

// NewRedisCache создает кеш поверх существующего клиента Redis
func NewRedisCache(client *redis.Client, ttl time.Duration, log Logger) *RedisCache {
	return &RedisCache{
		client: client,
		ttl:    ttl,
		prefix: "timeslots:",
		log:    log,
	}
}

// Get возвращает запись по ключу; любая ошибка трактуется как промах
func (c *RedisCache) Get(ctx context.Context, key string) (*Entry, bool) {
	raw, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if err != nil {
		if err != redis.Nil {
			c.log.Warn("cache: redis get failed: %v", err)
		}
		return nil, false
	}

	var entry Entry
	if err := json.Unmarshal(raw, &entry); err != nil {
		c.log.Warn("cache: corrupted cache entry for key %s: %v", key, err)
		return nil, false
	}
	return &entry, true
}

// Set сохраняет запись с TTL кеша
func (c *RedisCache) Set(ctx context.Context, key string, entry *Entry) {
	raw, err := json.Marshal(entry)
	if err != nil {
		c.log.Warn("cache: marshal cache entry: %v", err)
		return
	}
	if err := c.client.Set(ctx, c.prefix+key, raw, c.ttl).Err(); err != nil {
		c.log.Warn("cache: redis set failed: %v", err)
	}
}
