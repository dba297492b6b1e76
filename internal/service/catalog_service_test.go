package service

import (
	"context"
	"testing"
	"time"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// slowLister answers once release is closed, failing if its ctx ended first.
type slowLister struct {
	entered chan struct{}
	release chan struct{}
}

func (l *slowLister) ListProducts(ctx context.Context) ([]model.Product, error) {
	l.entered <- struct{}{}
	<-l.release
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return []model.Product{{ID: 1, Name: "Mug", Price: decimal.NewFromInt(20), StockQuantity: 2}}, nil
}

func TestCatalogRefresh_OutlivesCancelledCaller(t *testing.T) {
	lister := &slowLister{entered: make(chan struct{}, 1), release: make(chan struct{})}
	catalog := NewCatalogService(lister, event.NewBus())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := catalog.Refresh(ctx)
		done <- err
	}()
	<-lister.entered

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)

	close(lister.release)
	assert.Eventually(t, catalog.Loaded, time.Second, 10*time.Millisecond)

	p, err := catalog.Product(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Mug", p.Name)
}
