package caching

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hearthub/internal/models"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const keyPrefix = "hearthub:"

type CacheService interface {
	// Property caching
	GetProperty(ctx context.Context, propertyID int64) (*models.Property, error)
	SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error
	DeleteProperty(ctx context.Context, propertyID int64) error

	// Available listings page caching
	GetAvailablePage(ctx context.Context, limit, offset int) ([]*models.Property, error)
	SetAvailablePage(ctx context.Context, limit, offset int, properties []*models.Property, ttl time.Duration) error
	InvalidateAvailable(ctx context.Context) error

	// Rate limiting
	IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error)

	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
	log    logrus.FieldLogger
}

// NewRedisCacheService accepts either host:port or a redis:// URL.
func NewRedisCacheService(addr, password string, db int, log logrus.FieldLogger) CacheService {
	opts := &redis.Options{Addr: addr, Password: password, DB: db}
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if parsed, err := redis.ParseURL(addr); err == nil {
			opts = parsed
			if password != "" {
				opts.Password = password
			}
		} else {
			log.WithError(err).Warn("invalid redis url, falling back to raw address")
		}
	}

	client := redis.NewClient(opts)
	if err := client.Ping(context.Background()).Err(); err != nil {
		log.WithError(err).WithField("addr", opts.Addr).Warn("redis ping failed on initialization")
	} else {
		log.WithField("addr", opts.Addr).Debug("redis connection established")
	}

	return NewCacheServiceFromClient(client, log)
}

func NewCacheServiceFromClient(client *redis.Client, log logrus.FieldLogger) CacheService {
	return &redisCacheService{client: client, log: log}
}

func propertyKey(id int64) string {
	return fmt.Sprintf("%sproperty:%d", keyPrefix, id)
}

func availableKey(limit, offset int) string {
	return fmt.Sprintf("%savailable:%d:%d", keyPrefix, limit, offset)
}

func (r *redisCacheService) GetProperty(ctx context.Context, propertyID int64) (*models.Property, error) {
	data, err := r.client.Get(ctx, propertyKey(propertyID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var property models.Property
	if err := json.Unmarshal(data, &property); err != nil {
		return nil, err
	}
	property.Availability = models.ParseAvailability(property.Status)
	return &property, nil
}

func (r *redisCacheService) SetProperty(ctx context.Context, property *models.Property, ttl time.Duration) error {
	data, err := json.Marshal(property)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, propertyKey(property.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteProperty(ctx context.Context, propertyID int64) error {
	return r.client.Del(ctx, propertyKey(propertyID)).Err()
}

func (r *redisCacheService) GetAvailablePage(ctx context.Context, limit, offset int) ([]*models.Property, error) {
	data, err := r.client.Get(ctx, availableKey(limit, offset)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}

	var properties []*models.Property
	if err := json.Unmarshal(data, &properties); err != nil {
		return nil, err
	}
	for _, p := range properties {
		p.Availability = models.ParseAvailability(p.Status)
	}
	return properties, nil
}

func (r *redisCacheService) SetAvailablePage(ctx context.Context, limit, offset int, properties []*models.Property, ttl time.Duration) error {
	data, err := json.Marshal(properties)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, availableKey(limit, offset), data, ttl).Err()
}

func (r *redisCacheService) InvalidateAvailable(ctx context.Context) error {
	var keys []string
	iter := r.client.Scan(ctx, 0, keyPrefix+"available:*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return err
	}

	if len(keys) > 0 {
		return r.client.Del(ctx, keys...).Err()
	}
	return nil
}

func (r *redisCacheService) IsRateLimited(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	cacheKey := keyPrefix + "ratelimit:" + key
	count, err := r.client.Incr(ctx, cacheKey).Result()
	if err != nil {
		return true, err
	}

	// Set expiry on first request
	if count == 1 {
		r.client.Expire(ctx, cacheKey, window)
	}

	return count > int64(limit), nil
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
