package storeapi

import (
	"context"
	"fmt"
	"net/http"

	"fsanano/storefront/internal/model"
)

// Auth

func (c *Client) Register(ctx context.Context, req RegisterRequest) (*RegisterResponse, error) {
	var resp RegisterResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/register", req, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResponse, error) {
	var resp LoginResponse
	if err := c.Do(ctx, http.MethodPost, "/auth/login", LoginRequest{Email: email, Password: password}, false, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Products

func (c *Client) ListProducts(ctx context.Context) ([]model.Product, error) {
	var products []model.Product
	if err := c.Do(ctx, http.MethodGet, "/products", nil, false, &products); err != nil {
		return nil, err
	}
	return products, nil
}

func (c *Client) GetProduct(ctx context.Context, id int) (*model.Product, error) {
	var p model.Product
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/products/%d", id), nil, false, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

func (c *Client) CreateProduct(ctx context.Context, in ProductInput) error {
	return c.Do(ctx, http.MethodPost, "/products", in, true, nil)
}

func (c *Client) UpdateProduct(ctx context.Context, id int, in ProductInput) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/products/%d", id), in, true, nil)
}

func (c *Client) DeleteProduct(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/products/%d", id), nil, true, nil)
}

// Orders

func (c *Client) CreateOrder(ctx context.Context, req CreateOrderRequest) (*CreateOrderResponse, error) {
	var resp CreateOrderResponse
	if err := c.Do(ctx, http.MethodPost, "/orders", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// ListOrders returns the caller's orders, or every order for an admin token.
func (c *Client) ListOrders(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	if err := c.Do(ctx, http.MethodGet, "/orders", nil, true, &orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (c *Client) GetOrder(ctx context.Context, id int) (*model.Order, error) {
	var o model.Order
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/orders/%d", id), nil, true, &o); err != nil {
		return nil, err
	}
	return &o, nil
}

func (c *Client) UpdateOrderStatus(ctx context.Context, id int, status model.OrderStatus) error {
	return c.Do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/status", id), statusUpdate{Status: status}, true, nil)
}

func (c *Client) UpdateOrderPaymentStatus(ctx context.Context, id int, status model.PaymentStatus) error {
	return c.Do(ctx, http.MethodPatch, fmt.Sprintf("/orders/%d/payment-status", id), paymentStatusUpdate{PaymentStatus: status}, true, nil)
}

func (c *Client) DeleteOrder(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/orders/%d", id), nil, true, nil)
}

// Users

func (c *Client) ListUsers(ctx context.Context) ([]model.User, error) {
	var users []model.User
	if err := c.Do(ctx, http.MethodGet, "/users", nil, true, &users); err != nil {
		return nil, err
	}
	return users, nil
}

func (c *Client) GetUser(ctx context.Context, id int) (*model.User, error) {
	var u model.User
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/users/%d", id), nil, true, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *Client) UpdateUser(ctx context.Context, id int, in UserUpdate) error {
	return c.Do(ctx, http.MethodPut, fmt.Sprintf("/users/%d", id), in, true, nil)
}

func (c *Client) DeleteUser(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/users/%d", id), nil, true, nil)
}

// Messages

func (c *Client) SendMessage(ctx context.Context, req SendMessageRequest) error {
	return c.Do(ctx, http.MethodPost, "/messages", req, true, nil)
}

func (c *Client) ListMessages(ctx context.Context) ([]model.Message, error) {
	var msgs []model.Message
	if err := c.Do(ctx, http.MethodGet, "/messages", nil, true, &msgs); err != nil {
		return nil, err
	}
	return msgs, nil
}

func (c *Client) GetMessage(ctx context.Context, id int) (*model.Message, error) {
	var m model.Message
	if err := c.Do(ctx, http.MethodGet, fmt.Sprintf("/messages/%d", id), nil, true, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) MarkMessageRead(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodPatch, fmt.Sprintf("/messages/%d/read", id), nil, true, nil)
}

func (c *Client) DeleteMessage(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, fmt.Sprintf("/messages/%d", id), nil, true, nil)
}

// Payments

func (c *Client) CreatePaymentIntent(ctx context.Context, req PaymentIntentRequest) (*PaymentIntentResponse, error) {
	var resp PaymentIntentResponse
	if err := c.Do(ctx, http.MethodPost, "/create-payment-intent", req, true, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}
