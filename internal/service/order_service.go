package service

import (
	"context"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"
)

type OrderAPI interface {
	ListOrders(ctx context.Context) ([]model.Order, error)
	GetOrder(ctx context.Context, id int) (*model.Order, error)
	UpdateOrderStatus(ctx context.Context, id int, status model.OrderStatus) error
	DeleteOrder(ctx context.Context, id int) error
}

// OrderList is one rendered order table: the signed-in user's orders or,
// for admins, every order. Mutations publish OrdersChanged so that every
// order table fetches again.
type OrderList struct {
	api       OrderAPI
	session   SessionReader
	bus       *event.Bus
	adminOnly bool

	mu   sync.RWMutex
	rows []model.Order
}

func NewMyOrders(api OrderAPI, session SessionReader, bus *event.Bus) *OrderList {
	return &OrderList{api: api, session: session, bus: bus}
}

func NewAdminOrders(api OrderAPI, session SessionReader, bus *event.Bus) *OrderList {
	return &OrderList{api: api, session: session, bus: bus, adminOnly: true}
}

// Refresh re-fetches the table. Without an eligible session the table is
// emptied and nothing is fetched. A failed fetch keeps the previous rows.
func (l *OrderList) Refresh(ctx context.Context) error {
	if _, err := l.require(); err != nil {
		l.setRows(nil)
		return nil
	}
	orders, err := l.api.ListOrders(ctx)
	if err != nil {
		return err
	}
	l.setRows(orders)
	return nil
}

func (l *OrderList) Rows() []model.Order {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return clone(l.rows)
}

func (l *OrderList) Detail(ctx context.Context, id int) (*model.Order, error) {
	if _, err := l.require(); err != nil {
		return nil, err
	}
	return l.api.GetOrder(ctx, id)
}

// CanDelete is the delete-button rule: admins may delete any order, users
// only their own cancelled ones. The API enforces the real rule.
func (l *OrderList) CanDelete(o model.Order) bool {
	sess, ok := l.session.Current()
	if !ok {
		return false
	}
	if sess.IsAdmin() {
		return true
	}
	return o.UserID == sess.ID && o.Status == model.OrderStatusCancelled
}

func (l *OrderList) Delete(ctx context.Context, id int) error {
	if _, err := l.require(); err != nil {
		return err
	}
	if o, ok := l.row(id); ok && !l.CanDelete(o) {
		return ErrOrderNotDeletable
	}
	if err := l.api.DeleteOrder(ctx, id); err != nil {
		return err
	}
	_ = l.bus.Publish(ctx, event.OrdersChanged)
	return nil
}

// SetStatus moves an order to any of the known statuses; no transition
// order is imposed.
func (l *OrderList) SetStatus(ctx context.Context, id int, status model.OrderStatus) error {
	sess, ok := l.session.Current()
	if !ok {
		return ErrNotLoggedIn
	}
	if !sess.IsAdmin() {
		return ErrNotAdmin
	}
	if !status.Valid() {
		return ErrInvalidStatus
	}
	if err := l.api.UpdateOrderStatus(ctx, id, status); err != nil {
		return err
	}
	_ = l.bus.Publish(ctx, event.OrdersChanged)
	return nil
}

func (l *OrderList) require() (model.Session, error) {
	sess, ok := l.session.Current()
	if !ok {
		return model.Session{}, ErrNotLoggedIn
	}
	if l.adminOnly && !sess.IsAdmin() {
		return model.Session{}, ErrNotAdmin
	}
	return sess, nil
}

func (l *OrderList) row(id int) (model.Order, bool) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	for _, o := range l.rows {
		if o.ID == id {
			return o, true
		}
	}
	return model.Order{}, false
}

func (l *OrderList) setRows(rows []model.Order) {
	l.mu.Lock()
	l.rows = rows
	l.mu.Unlock()
}
