package service

import (
	"context"
	"testing"

	"fsanano/storefront/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func placeOrder(t *testing.T, sf *Storefront, productID int) int {
	t.Helper()
	ctx := context.Background()
	_, err := sf.Cart.Add(ctx, productID)
	require.NoError(t, err)
	res, err := sf.Cart.Checkout(ctx, "1 Main St", "paypal")
	require.NoError(t, err)
	return res.OrderID
}

func TestOrderList_UserRules(t *testing.T) {
	ctx := context.Background()
	sf := newTestStorefront(newFakeAPI(), nil, nil)
	login(t, sf, "alice@example.com")
	orderID := placeOrder(t, sf, 10)

	rows := sf.MyOrders.Rows()
	require.Len(t, rows, 1)
	assert.False(t, sf.MyOrders.CanDelete(rows[0]))
	assert.ErrorIs(t, sf.MyOrders.Delete(ctx, orderID), ErrOrderNotDeletable)

	assert.ErrorIs(t, sf.MyOrders.SetStatus(ctx, orderID, model.OrderStatusShipped), ErrNotAdmin)

	require.NoError(t, sf.AdminOrders.Refresh(ctx))
	assert.Empty(t, sf.AdminOrders.Rows(), "admin table stays empty for users")

	_, err := sf.AdminOrders.Detail(ctx, orderID)
	assert.ErrorIs(t, err, ErrNotAdmin)

	detail, err := sf.MyOrders.Detail(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, "1 Main St", detail.ShippingAddress)
}

func TestOrderList_CancelledOrderDeletable(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	sf := newTestStorefront(api, nil, nil)
	login(t, sf, "alice@example.com")
	orderID := placeOrder(t, sf, 10)

	require.NoError(t, api.UpdateOrderStatus(ctx, orderID, model.OrderStatusCancelled))
	require.NoError(t, sf.MyOrders.Refresh(ctx))

	rows := sf.MyOrders.Rows()
	require.Len(t, rows, 1)
	assert.True(t, sf.MyOrders.CanDelete(rows[0]))

	require.NoError(t, sf.MyOrders.Delete(ctx, orderID))
	assert.Empty(t, sf.MyOrders.Rows())
}

func TestOrderList_AdminSetStatus(t *testing.T) {
	ctx := context.Background()
	sf := newTestStorefront(newFakeAPI(), nil, nil)
	login(t, sf, "alice@example.com")
	orderID := placeOrder(t, sf, 10)

	login(t, sf, "admin@example.com")
	rows := sf.AdminOrders.Rows()
	require.Len(t, rows, 1)
	assert.True(t, sf.AdminOrders.CanDelete(rows[0]))

	assert.ErrorIs(t, sf.AdminOrders.SetStatus(ctx, orderID, "lost"), ErrInvalidStatus)

	require.NoError(t, sf.AdminOrders.SetStatus(ctx, orderID, model.OrderStatusShipped))
	rows = sf.AdminOrders.Rows()
	require.Len(t, rows, 1)
	assert.Equal(t, model.OrderStatusShipped, rows[0].Status)
}

func TestOrderList_NotLoggedIn(t *testing.T) {
	ctx := context.Background()
	api := newFakeAPI()
	sf := newTestStorefront(api, nil, nil)

	require.NoError(t, sf.MyOrders.Refresh(ctx))
	assert.Empty(t, sf.MyOrders.Rows())
	assert.Zero(t, api.listOrderCalls)

	_, err := sf.MyOrders.Detail(ctx, 1)
	assert.ErrorIs(t, err, ErrNotLoggedIn)
}
