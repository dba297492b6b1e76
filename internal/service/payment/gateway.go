// Package payment defines the gateway checkout charges orders through.
// Only simulated gateways exist: none of them talks to a real processor.
package payment

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"time"

	"fsanano/storefront/internal/service/storeapi"

	"github.com/shopspring/decimal"
)

type Method string

const (
	MethodStripe         Method = "stripe"
	MethodPayPal         Method = "paypal"
	MethodCashOnDelivery Method = "cash_on_delivery"
)

var ErrUnknownMethod = errors.New("unknown payment method")

func ParseMethod(s string) (Method, error) {
	switch m := Method(s); m {
	case MethodStripe, MethodPayPal, MethodCashOnDelivery:
		return m, nil
	}
	return "", ErrUnknownMethod
}

// Charge describes what is being paid.
type Charge struct {
	OrderID int
	Amount  decimal.Decimal
	Method  Method
}

type Outcome struct {
	Approved  bool
	Reference string
}

type Gateway interface {
	Authorize(ctx context.Context, c Charge) (Outcome, error)
}

// MockGateway waits Delay and approves with probability SuccessRate.
type MockGateway struct {
	Delay       time.Duration
	SuccessRate float64

	mu   sync.Mutex
	rand *rand.Rand
}

func NewMockGateway(delay time.Duration, successRate float64, src rand.Source) *MockGateway {
	if src == nil {
		src = rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return &MockGateway{Delay: delay, SuccessRate: successRate, rand: rand.New(src)}
}

func (g *MockGateway) Authorize(ctx context.Context, c Charge) (Outcome, error) {
	if g.Delay > 0 {
		timer := time.NewTimer(g.Delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			return Outcome{}, ctx.Err()
		case <-timer.C:
		}
	}

	g.mu.Lock()
	roll := g.rand.Float64()
	g.mu.Unlock()

	return Outcome{Approved: roll < g.SuccessRate}, nil
}

// IntentCreator is the part of the API client IntentGateway needs.
type IntentCreator interface {
	CreatePaymentIntent(ctx context.Context, req storeapi.PaymentIntentRequest) (*storeapi.PaymentIntentResponse, error)
}

// IntentGateway registers a payment intent with the API for card (stripe)
// payments before handing the charge to Next. Other methods pass through.
type IntentGateway struct {
	API  IntentCreator
	Next Gateway
}

func (g *IntentGateway) Authorize(ctx context.Context, c Charge) (Outcome, error) {
	if c.Method != MethodStripe {
		return g.Next.Authorize(ctx, c)
	}
	intent, err := g.API.CreatePaymentIntent(ctx, storeapi.PaymentIntentRequest{Amount: c.Amount, OrderID: c.OrderID})
	if err != nil {
		return Outcome{}, err
	}
	out, err := g.Next.Authorize(ctx, c)
	if err != nil {
		return Outcome{}, err
	}
	if out.Reference == "" {
		out.Reference = intent.ClientSecret
	}
	return out, nil
}
