package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sardarhouse/guesthouse/config"
	"github.com/sardarhouse/guesthouse/internal/domain"
)

type RedisCache struct {
	client  *redis.Client
	roomTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, roomTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:  redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		roomTTL: roomTTL,
	}
}

func (c *RedisCache) GetRoom(ctx context.Context, id int64) (*domain.Room, error) {
	data, err := c.client.Get(ctx, roomKey(id)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	var room domain.Room
	if err := json.Unmarshal(data, &room); err != nil {
		return nil, err
	}
	return &room, nil
}

func (c *RedisCache) SetRoom(ctx context.Context, room *domain.Room) error {
	payload, err := json.Marshal(room)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, roomKey(room.ID), payload, c.roomTTL).Err()
}

// MarkNotificationSeen records a gateway payment reference the first
// time its webhook arrives. Returns false when the reference was
// already recorded, so replayed notifications can be dropped before
// they reach the store.
func (c *RedisCache) MarkNotificationSeen(ctx context.Context, reference string, ttl time.Duration) (bool, error) {
	return c.client.SetNX(ctx, notificationKey(reference), "seen", ttl).Result()
}

// ClearNotificationSeen releases a reference claimed by
// MarkNotificationSeen so the provider's retry is not dropped after a
// failed store write.
func (c *RedisCache) ClearNotificationSeen(ctx context.Context, reference string) error {
	return c.client.Del(ctx, notificationKey(reference)).Err()
}

func roomKey(id int64) string {
	return fmt.Sprintf("cache:room:%d", id)
}

func notificationKey(reference string) string {
	return fmt.Sprintf("notify:seen:%s", reference)
}
