package directory

import (
	"context"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"cm-gateway/internal/consent/models"
	"cm-gateway/internal/docstore"
)

// Cached wraps a directory client with a TTL cache. Custodian configurations
// and mappers change rarely, so the receipt pipeline should not hit the
// directory on every issuance. Concurrent misses for the same key collapse
// into a single upstream call.
type Cached struct {
	base  Client
	cache *gocache.Cache
	group singleflight.Group
}

// NewCached builds a caching wrapper around base with the given TTL.
func NewCached(base Client, ttl time.Duration) *Cached {
	return &Cached{
		base:  base,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *Cached) GetOrgConfig(ctx context.Context, orgID string) (models.CustodianConfig, error) {
	key := "org:" + orgID
	if cached, ok := c.cache.Get(key); ok {
		return cached.(models.CustodianConfig), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		cfg, err := c.base.GetOrgConfig(ctx, orgID)
		if err != nil {
			return models.CustodianConfig{}, err
		}
		c.cache.SetDefault(key, cfg)
		return cfg, nil
	})
	if err != nil {
		return models.CustodianConfig{}, err
	}
	return v.(models.CustodianConfig), nil
}

func (c *Cached) GetMapper(ctx context.Context, name string) (docstore.Document, error) {
	key := "mapper:" + name
	if cached, ok := c.cache.Get(key); ok {
		return cached.(docstore.Document), nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		mapper, err := c.base.GetMapper(ctx, name)
		if err != nil {
			return nil, err
		}
		c.cache.SetDefault(key, mapper)
		return mapper, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(docstore.Document), nil
}

// SendInvitation is never cached.
func (c *Cached) SendInvitation(ctx context.Context, contact string, requestID string) error {
	return c.base.SendInvitation(ctx, contact, requestID)
}

var _ Client = (*Cached)(nil)
