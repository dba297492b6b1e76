package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service/payment"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/shopspring/decimal"
)

type SessionReader interface {
	Current() (model.Session, bool)
}

type ProductFinder interface {
	Product(ctx context.Context, id int) (model.Product, error)
}

type OrderCreator interface {
	CreateOrder(ctx context.Context, req storeapi.CreateOrderRequest) (*storeapi.CreateOrderResponse, error)
	UpdateOrderPaymentStatus(ctx context.Context, id int, status model.PaymentStatus) error
}

// CartService is the in-memory cart. Entries keep the product as it was
// when first added; quantities are checked against the cached catalog only.
type CartService struct {
	session SessionReader
	catalog ProductFinder
	orders  OrderCreator
	gateway payment.Gateway
	bus     *event.Bus

	mu          sync.Mutex
	items       []model.CartItem
	checkingOut bool
}

func NewCartService(session SessionReader, catalog ProductFinder, orders OrderCreator, gateway payment.Gateway, bus *event.Bus) *CartService {
	return &CartService{session: session, catalog: catalog, orders: orders, gateway: gateway, bus: bus}
}

func (s *CartService) Add(ctx context.Context, productID int) (model.CartItem, error) {
	if _, ok := s.session.Current(); !ok {
		return model.CartItem{}, ErrNotLoggedIn
	}

	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return model.CartItem{}, err
	}
	if product.StockQuantity <= 0 {
		return model.CartItem{}, ErrOutOfStock
	}

	s.mu.Lock()
	var item model.CartItem
	if i := s.index(productID); i >= 0 {
		if s.items[i].Quantity+1 > product.StockQuantity {
			s.mu.Unlock()
			return model.CartItem{}, ErrStockLimit
		}
		s.items[i].Quantity++
		item = s.items[i]
	} else {
		item = model.CartItem{ProductID: productID, Quantity: 1, ProductDetails: product}
		s.items = append(s.items, item)
	}
	s.mu.Unlock()

	_ = s.bus.Publish(ctx, event.CartChanged)
	return item, nil
}

// SetQuantity sets an entry's quantity. n <= 0 removes the entry. A
// quantity above the cached stock is clamped to it and reported through
// clamped; the clamp is not an error.
func (s *CartService) SetQuantity(ctx context.Context, productID, n int) (item model.CartItem, clamped bool, err error) {
	if n <= 0 {
		s.Remove(ctx, productID)
		return model.CartItem{}, false, nil
	}

	if !s.contains(productID) {
		return model.CartItem{}, false, ErrNotInCart
	}
	product, err := s.catalog.Product(ctx, productID)
	if err != nil {
		return model.CartItem{}, false, err
	}

	if n > product.StockQuantity {
		n = product.StockQuantity
		clamped = true
	}
	if n <= 0 {
		s.Remove(ctx, productID)
		return model.CartItem{}, true, nil
	}

	s.mu.Lock()
	i := s.index(productID)
	if i < 0 {
		s.mu.Unlock()
		return model.CartItem{}, false, ErrNotInCart
	}
	s.items[i].Quantity = n
	item = s.items[i]
	s.mu.Unlock()

	_ = s.bus.Publish(ctx, event.CartChanged)
	return item, clamped, nil
}

func (s *CartService) Remove(ctx context.Context, productID int) {
	s.mu.Lock()
	if i := s.index(productID); i >= 0 {
		s.items = append(s.items[:i], s.items[i+1:]...)
	}
	s.mu.Unlock()
	_ = s.bus.Publish(ctx, event.CartChanged)
}

func (s *CartService) Clear(ctx context.Context) {
	s.mu.Lock()
	s.items = nil
	s.mu.Unlock()
	_ = s.bus.Publish(ctx, event.CartChanged)
}

func (s *CartService) Items() []model.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return clone(s.items)
}

// Count is the number of distinct products in the cart.
func (s *CartService) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// TotalUSD sums snapshot prices; the live catalog price is never read.
func (s *CartService) TotalUSD() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return totalOf(s.items)
}

// HandleSessionChanged empties the cart once nobody is signed in.
func (s *CartService) HandleSessionChanged(ctx context.Context) error {
	if _, ok := s.session.Current(); !ok {
		s.Clear(ctx)
	}
	return nil
}

type CheckoutResult struct {
	OrderID       int                 `json:"order_id"`
	Method        payment.Method      `json:"method"`
	Total         decimal.Decimal     `json:"total"`
	Approved      bool                `json:"approved"`
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

// Checkout submits the cart as an order and runs the payment. Only one
// checkout runs at a time; a second one fails with ErrCheckoutInProgress.
// Once the order exists the cart is emptied whatever the payment outcome.
// Only admin sessions may record the outcome on the order; for everyone else
// the order's payment status stays pending.
func (s *CartService) Checkout(ctx context.Context, shippingAddress, method string) (*CheckoutResult, error) {
	items, err := s.beginCheckout()
	if err != nil {
		return nil, err
	}
	defer s.endCheckout()

	if len(items) == 0 {
		return nil, ErrEmptyCart
	}
	sess, ok := s.session.Current()
	if !ok {
		return nil, ErrNotLoggedIn
	}
	shippingAddress = strings.TrimSpace(shippingAddress)
	if shippingAddress == "" {
		return nil, ErrMissingAddress
	}
	if strings.TrimSpace(method) == "" {
		return nil, ErrMissingPaymentMethod
	}
	payMethod, err := payment.ParseMethod(method)
	if err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMissingPaymentMethod, method)
	}

	lines := make([]storeapi.OrderLine, 0, len(items))
	for _, it := range items {
		lines = append(lines, storeapi.OrderLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}

	created, err := s.orders.CreateOrder(ctx, storeapi.CreateOrderRequest{ShippingAddress: shippingAddress, Items: lines})
	if err != nil {
		return nil, fmt.Errorf("order failed: %w", err)
	}

	result := &CheckoutResult{
		OrderID:       created.OrderID,
		Method:        payMethod,
		Total:         totalOf(items),
		PaymentStatus: model.PaymentStatusPending,
	}

	outcome, err := s.gateway.Authorize(ctx, payment.Charge{OrderID: created.OrderID, Amount: result.Total, Method: payMethod})
	if err != nil {
		slog.Error("payment authorization failed", "order_id", created.OrderID, "error", err)
	}
	result.Approved = err == nil && outcome.Approved

	s.Clear(ctx)

	if sess.IsAdmin() {
		status := model.PaymentStatusFailed
		if result.Approved {
			status = model.PaymentStatusCompleted
		}
		if err := s.orders.UpdateOrderPaymentStatus(ctx, created.OrderID, status); err != nil {
			slog.Error("failed to record payment status", "order_id", created.OrderID, "status", status, "error", err)
		} else {
			result.PaymentStatus = status
		}
	}

	_ = s.bus.Publish(ctx, event.OrdersChanged)
	return result, nil
}

func (s *CartService) beginCheckout() ([]model.CartItem, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.checkingOut {
		return nil, ErrCheckoutInProgress
	}
	s.checkingOut = true
	return clone(s.items), nil
}

func (s *CartService) endCheckout() {
	s.mu.Lock()
	s.checkingOut = false
	s.mu.Unlock()
}

func (s *CartService) index(productID int) int {
	for i, it := range s.items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (s *CartService) contains(productID int) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.index(productID) >= 0
}

func totalOf(items []model.CartItem) decimal.Decimal {
	total := decimal.Zero
	for _, it := range items {
		total = total.Add(it.ProductDetails.Price.Mul(decimal.NewFromInt(int64(it.Quantity))))
	}
	return total
}
