package cache

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client  *redis.Client
	ttlList time.Duration
	ttlItem time.Duration
}

func NewRedisCache(client *redis.Client, ttlList, ttlItem int) *RedisCache {
	return &RedisCache{
		client:  client,
		ttlList: time.Duration(ttlList) * time.Second,
		ttlItem: time.Duration(ttlItem) * time.Second,
	}
}

func (r *RedisCache) GetDocumentList(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

func (r *RedisCache) SetDocumentList(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, key, data, r.ttlList).Err()
}

func (r *RedisCache) GetDocumentItem(ctx context.Context, key string) ([]byte, error) {
	return r.client.Get(ctx, key).Bytes()
}

func (r *RedisCache) SetDocumentItem(ctx context.Context, key string, data []byte) error {
	return r.client.Set(ctx, key, data, r.ttlItem).Err()
}

// Инвалидация списков сканом по префиксу. Грубо, но списки живут
// недолго; ключи списков начинаются с "doclist:".
func (r *RedisCache) InvalidateDocumentLists(ctx context.Context) error {
	iter := r.client.Scan(ctx, 0, "doclist:*", 0).Iterator()
	for iter.Next(ctx) {
		_ = r.client.Del(ctx, iter.Val()).Err() // Ошибку отдельного ключа игнорируем
	}
	return iter.Err()
}

func (r *RedisCache) InvalidateDocumentItem(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

// --- Блэклист JWT токенов (logout) ---

func (r *RedisCache) BlacklistToken(ctx context.Context, tokenHash string, ttl time.Duration) error {
	return r.client.Set(ctx, "blacklist:"+tokenHash, "1", ttl).Err()
}

func (r *RedisCache) IsTokenBlacklisted(ctx context.Context, tokenHash string) (bool, error) {
	_, err := r.client.Get(ctx, "blacklist:"+tokenHash).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
