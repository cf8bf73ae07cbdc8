// Package cache кеш ответов планировщика с коротким TTL
// Явный компонент, внедряемый в обработчик: ключ — отпечаток нормализованного
// запроса (Fingerprint), значение — готовое тело ответа. Гасит повторяющийся
// поллинг клиентов без пересчёта слотов.
package cache

import (
	"context"
	"sync"
	"time"
)

// Entry кешированный ответ планировщика
type Entry struct {
	ETag string `json:"etag"`
	Body []byte `json:"body"`
}

// ResponseCache интерфейс кеша ответов
type ResponseCache interface {
	Get(ctx context.Context, key string) (*Entry, bool)
	Set(ctx context.Context, key string, entry *Entry)
}

// MemoryCache кеш в памяти процесса; используется, когда Redis выключен
type MemoryCache struct {
	ttl time.Duration

	mu    sync.RWMutex
	items map[string]memoryItem
}

type memoryItem struct {
	entry     Entry
	expiresAt time.Time
}

// NewMemoryCache создает кеш в памяти с указанным TTL
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{
		ttl:   ttl,
		items: make(map[string]memoryItem),
	}
}

// Get возвращает запись, если она есть и не протухла
func (c *MemoryCache) Get(_ context.Context, key string) (*Entry, bool) {
	c.mu.RLock()
	item, ok := c.items[key]
	c.mu.RUnlock()

	if !ok || time.Now().After(item.expiresAt) {
		return nil, false
	}
	entry := item.entry
	return &entry, true
}

// Set сохраняет запись; попутно выбрасывает протухшие записи
func (c *MemoryCache) Set(_ context.Context, key string, entry *Entry) {
	now := time.Now()

	c.mu.Lock()
	defer c.mu.Unlock()

	for k, item := range c.items {
		if now.After(item.expiresAt) {
			delete(c.items, k)
		}
	}
	c.items[key] = memoryItem{entry: *entry, expiresAt: now.Add(c.ttl)}
}
