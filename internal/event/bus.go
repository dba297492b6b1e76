// Package event is a small publish/subscribe bus. Views subscribe to the
// topics they display and re-fetch their data when a topic is published.
package event

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"
)

type Topic string

const (
	SessionChanged  Topic = "session"
	CatalogChanged  Topic = "catalog"
	CartChanged     Topic = "cart"
	OrdersChanged   Topic = "orders"
	MessagesChanged Topic = "messages"
	UsersChanged    Topic = "users"
	ProductsChanged Topic = "products"
)

type Handler func(ctx context.Context) error

type Bus struct {
	mu   sync.RWMutex
	subs map[Topic][]Handler
}

func NewBus() *Bus {
	return &Bus{subs: make(map[Topic][]Handler)}
}

func (b *Bus) Subscribe(topic Topic, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[topic] = append(b.subs[topic], h)
}

// Publish runs every handler of each topic concurrently and waits for all of
// them. A failing handler does not stop the others; the first error is
// returned.
func (b *Bus) Publish(ctx context.Context, topics ...Topic) error {
	b.mu.RLock()
	var handlers []Handler
	for _, topic := range topics {
		handlers = append(handlers, b.subs[topic]...)
	}
	b.mu.RUnlock()

	var g errgroup.Group
	for _, h := range handlers {
		g.Go(func() error {
			return h(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		slog.Warn("view refresh failed", "topics", topics, "error", err)
		return err
	}
	return nil
}
