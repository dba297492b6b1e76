package storeapi

import (
	"fmt"

	"fsanano/storefront/internal/model"

	"github.com/shopspring/decimal"
)

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  model.User `json:"user"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	ID       int    `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProductInput is the body for product create/update.
type ProductInput struct {
	Name          string          `json:"name"`
	Description   string          `json:"description"`
	Price         decimal.Decimal `json:"price"`
	Category      string          `json:"category"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
}

// OrderLine carries no price: the API prices orders itself.
type OrderLine struct {
	ProductID int `json:"productId"`
	Quantity  int `json:"quantity"`
}

type CreateOrderRequest struct {
	ShippingAddress string      `json:"shipping_address"`
	Items           []OrderLine `json:"items"`
}

type CreateOrderResponse struct {
	Message string `json:"message,omitempty"`
	OrderID int    `json:"orderId"`
}

type statusUpdate struct {
	Status model.OrderStatus `json:"status"`
}

type paymentStatusUpdate struct {
	PaymentStatus model.PaymentStatus `json:"payment_status"`
}

type UserUpdate struct {
	Username string     `json:"username,omitempty"`
	Email    string     `json:"email,omitempty"`
	Role     model.Role `json:"role,omitempty"`
}

type SendMessageRequest struct {
	ReceiverID  *int   `json:"receiverId"`
	Subject     string `json:"subject"`
	MessageText string `json:"messageText"`
}

type PaymentIntentRequest struct {
	Amount  decimal.Decimal `json:"amount"`
	OrderID int             `json:"orderId"`
}

type PaymentIntentResponse struct {
	ClientSecret string `json:"clientSecret"`
}

// ErrorResponse is returned for every non-2xx answer from the API.
type ErrorResponse struct {
	Status  int    `json:"-"`
	Message string `json:"message"`
}

func (e *ErrorResponse) Error() string {
	return e.Message
}

func (e *ErrorResponse) String() string {
	return fmt.Sprintf("storefront api error %d: %s", e.Status, e.Message)
}
