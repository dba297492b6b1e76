package service

import (
	"context"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/repository"
	"fsanano/storefront/internal/service/payment"
	"fsanano/storefront/internal/service/storeapi"
)

// API is everything the storefront needs from the remote API.
// *storeapi.Client implements it.
type API interface {
	AuthAPI
	ProductAPI
	OrderAPI
	OrderCreator
	UserAPI
	MessageAPI
}

var _ API = (*storeapi.Client)(nil)

// Storefront is the set of state containers and views of one client,
// wired to each other through a single event bus.
type Storefront struct {
	Bus *event.Bus

	Session *SessionService
	Catalog *CatalogService
	Cart    *CartService

	MyOrders    *OrderList
	AdminOrders *OrderList

	Inbox         *MessageList
	AdminMessages *MessageList
	Messages      *MessagePortal

	AdminProducts *ProductAdmin
	AdminUsers    *UserAdmin
}

func NewStorefront(api API, tokens repository.TokenStore, gateway payment.Gateway) *Storefront {
	bus := event.NewBus()
	session := NewSessionService(api, tokens, bus)
	catalog := NewCatalogService(api, bus)

	sf := &Storefront{
		Bus:           bus,
		Session:       session,
		Catalog:       catalog,
		Cart:          NewCartService(session, catalog, api, gateway, bus),
		MyOrders:      NewMyOrders(api, session, bus),
		AdminOrders:   NewAdminOrders(api, session, bus),
		Inbox:         NewInbox(api, session),
		AdminMessages: NewAdminMessages(api, session),
		Messages:      NewMessagePortal(api, session, bus),
		AdminProducts: NewProductAdmin(api, session, bus),
		AdminUsers:    NewUserAdmin(api, session, bus),
	}
	sf.wire()
	return sf
}

func (sf *Storefront) wire() {
	bus := sf.Bus

	bus.Subscribe(event.SessionChanged, sf.Cart.HandleSessionChanged)
	for _, refresh := range []event.Handler{
		sf.MyOrders.Refresh,
		sf.AdminOrders.Refresh,
		sf.Inbox.Refresh,
		sf.AdminMessages.Refresh,
		sf.AdminProducts.Refresh,
		sf.AdminUsers.Refresh,
	} {
		bus.Subscribe(event.SessionChanged, refresh)
	}

	bus.Subscribe(event.OrdersChanged, sf.MyOrders.Refresh)
	bus.Subscribe(event.OrdersChanged, sf.AdminOrders.Refresh)

	bus.Subscribe(event.MessagesChanged, sf.Inbox.Refresh)
	bus.Subscribe(event.MessagesChanged, sf.AdminMessages.Refresh)

	bus.Subscribe(event.UsersChanged, sf.AdminUsers.Refresh)

	bus.Subscribe(event.ProductsChanged, sf.AdminProducts.Refresh)
	bus.Subscribe(event.ProductsChanged, func(ctx context.Context) error {
		_, err := sf.Catalog.Refresh(ctx)
		return err
	})
}

// Start restores the persisted session and loads the catalog.
func (sf *Storefront) Start(ctx context.Context) error {
	if err := sf.Session.Load(ctx); err != nil {
		return err
	}
	_, err := sf.Catalog.Refresh(ctx)
	return err
}
