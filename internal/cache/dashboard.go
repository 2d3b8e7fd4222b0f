package cache

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/rmarques/stocklens/internal/config"
	"github.com/rmarques/stocklens/internal/domain"
)

const (
	dashboardKeyPrefix  = "analytics:dashboard"
	scanBatchSize       = 100
	defaultDashboardTTL = time.Minute
)

// DashboardCache keeps the consolidated dashboard warm between calls.
// The engine always recomputes; caching is purely a latency shortcut
// owned by the service layer, keyed on the exact parameter set.
type DashboardCache interface {
	Get(ctx context.Context, paramsKey string) (*domain.Dashboard, bool, error)
	Set(ctx context.Context, paramsKey string, dashboard *domain.Dashboard) error
	InvalidateAll(ctx context.Context) error
}

type redisDashboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

type noopDashboardCache struct{}

func NewDashboardCache(cfg config.CacheConfig) (DashboardCache, error) {
	if !cfg.Enabled {
		return &noopDashboardCache{}, nil
	}

	client, ttl, err := newRedisClient(cfg)
	if err != nil {
		return nil, err
	}

	return &redisDashboardCache{client: client, ttl: ttl}, nil
}

func NewNoopDashboardCache() DashboardCache {
	return &noopDashboardCache{}
}

func (c *redisDashboardCache) Get(ctx context.Context, paramsKey string) (*domain.Dashboard, bool, error) {
	payload, err := c.client.Get(ctx, dashboardKey(paramsKey)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get failed: %w", err)
	}

	var dashboard domain.Dashboard
	if err := json.Unmarshal(payload, &dashboard); err != nil {
		return nil, false, fmt.Errorf("decode dashboard cache: %w", err)
	}

	return &dashboard, true, nil
}

func (c *redisDashboardCache) Set(ctx context.Context, paramsKey string, dashboard *domain.Dashboard) error {
	payload, err := json.Marshal(dashboard)
	if err != nil {
		return fmt.Errorf("encode dashboard cache: %w", err)
	}

	if err := c.client.Set(ctx, dashboardKey(paramsKey), payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}

	return nil
}

func (c *redisDashboardCache) InvalidateAll(ctx context.Context) error {
	return deleteKeysWithPrefix(ctx, c.client, dashboardKeyPrefix, scanBatchSize)
}

func (n *noopDashboardCache) Get(ctx context.Context, paramsKey string) (*domain.Dashboard, bool, error) {
	return nil, false, nil
}

func (n *noopDashboardCache) Set(ctx context.Context, paramsKey string, dashboard *domain.Dashboard) error {
	return nil
}

func (n *noopDashboardCache) InvalidateAll(ctx context.Context) error {
	return nil
}

func dashboardKey(paramsKey string) string {
	if paramsKey == "" {
		return dashboardKeyPrefix + ":default"
	}
	hash := sha1.Sum([]byte(paramsKey))
	return fmt.Sprintf("%s:%s", dashboardKeyPrefix, hex.EncodeToString(hash[:]))
}
