package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service/payment"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/golang-jwt/jwt/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

// fakeAPI is an in-memory stand-in for the remote API. The signed-in caller
// is whoever logged in last.
type fakeAPI struct {
	mu sync.Mutex

	users    map[string]model.User // by email
	products []model.Product
	orders   []model.Order
	messages []model.Message
	caller   *model.User

	createdOrders  []storeapi.CreateOrderRequest
	paymentUpdates map[int]model.PaymentStatus
	sent           []storeapi.SendMessageRequest
	listOrderCalls int
	listProdCalls  int
	failProducts   error
	nextID         int
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		users: map[string]model.User{
			"alice@example.com": {ID: 1, Username: "alice", Email: "alice@example.com", Role: model.RoleUser},
			"admin@example.com": {ID: 2, Username: "root", Email: "admin@example.com", Role: model.RoleAdmin},
			"bob@example.com":   {ID: 3, Username: "bob", Email: "bob@example.com", Role: model.RoleUser},
		},
		products: []model.Product{
			{ID: 10, Name: "Mug", Category: "Kitchen", Price: decimal.RequireFromString("20.00"), StockQuantity: 5},
			{ID: 11, Name: "Lamp", Category: "Home", Price: decimal.RequireFromString("10.00"), StockQuantity: 1},
			{ID: 12, Name: "Poster", Category: "Home", Price: decimal.RequireFromString("5.00"), StockQuantity: 0},
		},
		paymentUpdates: make(map[int]model.PaymentStatus),
		nextID:         100,
	}
}

func (f *fakeAPI) id() int {
	f.nextID++
	return f.nextID
}

func (f *fakeAPI) Login(_ context.Context, email, password string) (*storeapi.LoginResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[email]
	if !ok || password != "secret" {
		return nil, &storeapi.ErrorResponse{Status: 401, Message: "Invalid credentials"}
	}
	f.caller = &u
	return &storeapi.LoginResponse{Token: signedToken(u.ID, u.Username, u.Role), User: u}, nil
}

func (f *fakeAPI) Register(_ context.Context, req storeapi.RegisterRequest) (*storeapi.RegisterResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.users[req.Email]; ok {
		return nil, &storeapi.ErrorResponse{Status: 400, Message: "Email already registered"}
	}
	u := model.User{ID: f.id(), Username: req.Username, Email: req.Email, Role: model.RoleUser}
	f.users[req.Email] = u
	return &storeapi.RegisterResponse{ID: u.ID, Username: u.Username, Email: u.Email}, nil
}

func (f *fakeAPI) ListProducts(context.Context) ([]model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listProdCalls++
	if f.failProducts != nil {
		return nil, f.failProducts
	}
	return clone(f.products), nil
}

func (f *fakeAPI) GetProduct(_ context.Context, id int) (*model.Product, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.products {
		if p.ID == id {
			return &p, nil
		}
	}
	return nil, &storeapi.ErrorResponse{Status: 404, Message: "Product not found"}
}

func (f *fakeAPI) CreateProduct(_ context.Context, in storeapi.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.products = append(f.products, model.Product{
		ID: f.id(), Name: in.Name, Category: in.Category, Price: in.Price,
		StockQuantity: in.StockQuantity, ImageURL: in.ImageURL, Description: in.Description,
	})
	return nil
}

func (f *fakeAPI) UpdateProduct(_ context.Context, id int, in storeapi.ProductInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == id {
			f.products[i] = model.Product{
				ID: id, Name: in.Name, Category: in.Category, Price: in.Price,
				StockQuantity: in.StockQuantity, ImageURL: in.ImageURL, Description: in.Description,
			}
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Product not found"}
}

func (f *fakeAPI) DeleteProduct(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == id {
			f.products = append(f.products[:i], f.products[i+1:]...)
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Product not found"}
}

func (f *fakeAPI) CreateOrder(_ context.Context, req storeapi.CreateOrderRequest) (*storeapi.CreateOrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caller == nil {
		return nil, &storeapi.ErrorResponse{Status: 401, Message: "Unauthorized"}
	}
	f.createdOrders = append(f.createdOrders, req)

	total := decimal.Zero
	for _, line := range req.Items {
		for _, p := range f.products {
			if p.ID == line.ProductID {
				total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
			}
		}
	}
	o := model.Order{
		ID: f.id(), UserID: f.caller.ID, Username: f.caller.Username, TotalAmount: total,
		Status: model.OrderStatusPending, PaymentStatus: model.PaymentStatusPending,
		ShippingAddress: req.ShippingAddress, OrderDate: time.Now(),
	}
	f.orders = append(f.orders, o)
	return &storeapi.CreateOrderResponse{Message: "Order created", OrderID: o.ID}, nil
}

func (f *fakeAPI) ListOrders(context.Context) ([]model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.listOrderCalls++
	if f.caller == nil {
		return nil, &storeapi.ErrorResponse{Status: 401, Message: "Unauthorized"}
	}
	var out []model.Order
	for _, o := range f.orders {
		if f.caller.Role == model.RoleAdmin || o.UserID == f.caller.ID {
			out = append(out, o)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetOrder(_ context.Context, id int) (*model.Order, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, o := range f.orders {
		if o.ID == id {
			return &o, nil
		}
	}
	return nil, &storeapi.ErrorResponse{Status: 404, Message: "Order not found"}
}

func (f *fakeAPI) UpdateOrderStatus(_ context.Context, id int, status model.OrderStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].Status = status
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Order not found"}
}

func (f *fakeAPI) UpdateOrderPaymentStatus(_ context.Context, id int, status model.PaymentStatus) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.paymentUpdates[id] = status
	for i, o := range f.orders {
		if o.ID == id {
			f.orders[i].PaymentStatus = status
		}
	}
	return nil
}

func (f *fakeAPI) DeleteOrder(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, o := range f.orders {
		if o.ID == id {
			f.orders = append(f.orders[:i], f.orders[i+1:]...)
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Order not found"}
}

func (f *fakeAPI) ListUsers(context.Context) ([]model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []model.User
	for _, u := range f.users {
		out = append(out, u)
	}
	return out, nil
}

func (f *fakeAPI) GetUser(_ context.Context, id int) (*model.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.ID == id {
			return &u, nil
		}
	}
	return nil, &storeapi.ErrorResponse{Status: 404, Message: "User not found"}
}

// DeleteUser cascades to the user's orders like the real API.
func (f *fakeAPI) DeleteUser(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for email, u := range f.users {
		if u.ID == id {
			delete(f.users, email)
			kept := f.orders[:0]
			for _, o := range f.orders {
				if o.UserID != id {
					kept = append(kept, o)
				}
			}
			f.orders = kept
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "User not found"}
}

func (f *fakeAPI) SendMessage(_ context.Context, req storeapi.SendMessageRequest) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, req)
	m := model.Message{ID: f.id(), SenderID: f.caller.ID, ReceiverID: req.ReceiverID, Subject: req.Subject, MessageText: req.MessageText, SentAt: time.Now()}
	f.messages = append(f.messages, m)
	return nil
}

func (f *fakeAPI) ListMessages(context.Context) ([]model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.caller == nil {
		return nil, &storeapi.ErrorResponse{Status: 401, Message: "Unauthorized"}
	}
	var out []model.Message
	for _, m := range f.messages {
		if f.caller.Role == model.RoleAdmin || m.SenderID == f.caller.ID || m.AddressedTo(f.caller.ID) {
			out = append(out, m)
		}
	}
	return out, nil
}

func (f *fakeAPI) GetMessage(_ context.Context, id int) (*model.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, m := range f.messages {
		if m.ID == id {
			return &m, nil
		}
	}
	return nil, &storeapi.ErrorResponse{Status: 404, Message: "Message not found"}
}

func (f *fakeAPI) MarkMessageRead(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.messages {
		if m.ID == id {
			f.messages[i].IsRead = true
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Message not found"}
}

func (f *fakeAPI) DeleteMessage(_ context.Context, id int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, m := range f.messages {
		if m.ID == id {
			f.messages = append(f.messages[:i], f.messages[i+1:]...)
			return nil
		}
	}
	return &storeapi.ErrorResponse{Status: 404, Message: "Message not found"}
}

func (f *fakeAPI) setPrice(id int, price string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, p := range f.products {
		if p.ID == id {
			f.products[i].Price = decimal.RequireFromString(price)
		}
	}
}

func (f *fakeAPI) addMessage(m model.Message) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	m.ID = f.id()
	f.messages = append(f.messages, m)
	return m.ID
}

// fixedGateway always gives the same answer.
type fixedGateway struct {
	approved bool
	charges  []payment.Charge
}

func (g *fixedGateway) Authorize(_ context.Context, c payment.Charge) (payment.Outcome, error) {
	g.charges = append(g.charges, c)
	return payment.Outcome{Approved: g.approved, Reference: fmt.Sprintf("ref-%d", c.OrderID)}, nil
}

func signedToken(id int, username string, role model.Role) string {
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"userId":   id,
		"username": username,
		"role":     string(role),
	})
	s, err := tok.SignedString([]byte("test-key"))
	if err != nil {
		panic(err)
	}
	return s
}

func login(t *testing.T, sf *Storefront, email string) model.Session {
	t.Helper()
	sess, err := sf.Session.Login(context.Background(), email, "secret")
	require.NoError(t, err)
	return sess
}
