package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"

	"github.com/jhoicas/pos-ledger/internal/application/inventory"
	"github.com/jhoicas/pos-ledger/internal/domain/entity"
)

var _ inventory.StockCache = (*RedisStockCache)(nil)

const keyPrefix = "pos:stock:"

// StockKey clave Redis de la existencia de un artículo.
func StockKey(itemID int64) string {
	return fmt.Sprintf("%s%d", keyPrefix, itemID)
}

// RedisStockCache guarda ItemStock como JSON con TTL.
type RedisStockCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStockCache construye la caché contra addr.
func NewRedisStockCache(addr, password string, db int, ttl time.Duration) *RedisStockCache {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	return &RedisStockCache{client: client, ttl: ttl}
}

// Ping verifica la conexión.
func (c *RedisStockCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close libera el cliente.
func (c *RedisStockCache) Close() error {
	return c.client.Close()
}

func (c *RedisStockCache) Get(ctx context.Context, itemID int64) (*entity.ItemStock, bool, error) {
	val, err := c.client.Get(ctx, StockKey(itemID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var s entity.ItemStock
	if err := json.Unmarshal(val, &s); err != nil {
		return nil, false, err
	}
	return &s, true, nil
}

func (c *RedisStockCache) Set(ctx context.Context, s *entity.ItemStock) error {
	if s == nil {
		return nil
	}
	payload, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, StockKey(s.ItemID), payload, c.ttl).Err()
}

func (c *RedisStockCache) Invalidate(ctx context.Context, itemIDs ...int64) error {
	if len(itemIDs) == 0 {
		return nil
	}
	keys := make([]string, 0, len(itemIDs))
	for _, id := range itemIDs {
		keys = append(keys, StockKey(id))
	}
	return c.client.Del(ctx, keys...).Err()
}
