package service

import (
	"context"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"

	"golang.org/x/sync/singleflight"
)

type ProductLister interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
}

// CatalogService mirrors the product collection. Every refresh replaces the
// whole collection; lookups scan it linearly.
type CatalogService struct {
	api   ProductLister
	bus   *event.Bus
	group singleflight.Group

	mu       sync.RWMutex
	products []model.Product
	loaded   bool
}

func NewCatalogService(api ProductLister, bus *event.Bus) *CatalogService {
	return &CatalogService{api: api, bus: bus}
}

// Refresh fetches the product list. Concurrent callers share one request.
// On failure the previous collection is kept. The shared request is not tied
// to any one caller: a caller whose ctx ends stops waiting, the fetch goes on.
func (c *CatalogService) Refresh(ctx context.Context) ([]model.Product, error) {
	shared := context.WithoutCancel(ctx)
	ch := c.group.DoChan("products", func() (any, error) {
		products, err := c.api.ListProducts(shared)
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.products = products
		c.loaded = true
		c.mu.Unlock()

		_ = c.bus.Publish(shared, event.CatalogChanged)
		return products, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return clone(res.Val.([]model.Product)), nil
	}
}

func (c *CatalogService) Products() []model.Product {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return clone(c.products)
}

func (c *CatalogService) Loaded() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loaded
}

// Product looks id up in the cache, fetching the catalog first (or waiting
// for the fetch already running) when nothing has been loaded yet.
func (c *CatalogService) Product(ctx context.Context, id int) (model.Product, error) {
	if !c.Loaded() {
		if _, err := c.Refresh(ctx); err != nil {
			return model.Product{}, err
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, p := range c.products {
		if p.ID == id {
			return p, nil
		}
	}
	return model.Product{}, ErrProductNotFound
}

func clone[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}
