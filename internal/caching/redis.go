package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"stockyfy/internal/models"
)

// CacheService backs the process-local state that the original client kept
// on-device: the logged-in warehouseman identity and a short-lived product
// cache. All cache failures are soft; callers log and fall through to the
// remote store.
type CacheService interface {
	// Session management. The session has no TTL: it lives until an
	// explicit logout clears it.
	SetSession(ctx context.Context, user *models.Warehouseman) error
	GetSession(ctx context.Context) (*models.Warehouseman, error)
	DeleteSession(ctx context.Context) error

	// Product caching for soft by-id lookups. Barcode lookups are never
	// served from cache: first-match semantics over the live collection
	// must hold.
	GetProduct(ctx context.Context, productID string) (*models.Product, error)
	SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error
	DeleteProduct(ctx context.Context, productID string) error
}

type redisCacheService struct {
	client *redis.Client
}

const sessionKey = "stockyfy:session:user"

func NewRedisCacheService(addr, password string, db int) CacheService {
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func (r *redisCacheService) SetSession(ctx context.Context, user *models.Warehouseman) error {
	data, err := json.Marshal(user)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey, data, 0).Err()
}

func (r *redisCacheService) GetSession(ctx context.Context) (*models.Warehouseman, error) {
	data, err := r.client.Get(ctx, sessionKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // no active session
		}
		return nil, err
	}
	var user models.Warehouseman
	if err := json.Unmarshal(data, &user); err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *redisCacheService) DeleteSession(ctx context.Context) error {
	return r.client.Del(ctx, sessionKey).Err()
}

func (r *redisCacheService) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	key := fmt.Sprintf("stockyfy:product:%s", productID)
	data, err := r.client.Get(ctx, key).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}
	var product models.Product
	if err := json.Unmarshal(data, &product); err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *redisCacheService) SetProduct(ctx context.Context, product *models.Product, ttl time.Duration) error {
	key := fmt.Sprintf("stockyfy:product:%s", product.ID)
	data, err := json.Marshal(product)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, key, data, ttl).Err()
}

func (r *redisCacheService) DeleteProduct(ctx context.Context, productID string) error {
	key := fmt.Sprintf("stockyfy:product:%s", productID)
	return r.client.Del(ctx, key).Err()
}
