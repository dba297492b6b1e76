package storeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"fsanano/storefront/internal/model"

	"github.com/andybalholm/brotli"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type staticToken string

func (s staticToken) Token(context.Context) (string, error) {
	return string(s), nil
}

func TestDo_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotRequestID string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-ID")
		json.NewEncoder(w).Encode([]model.Order{{ID: 7, Status: model.OrderStatusPending}})
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken("abc"))

	orders, err := client.ListOrders(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.NotEmpty(t, gotRequestID)
	require.Len(t, orders, 1)
	assert.Equal(t, 7, orders[0].ID)
}

func TestDo_AuthRequiredWithoutToken(t *testing.T) {
	calls := 0
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken(""))

	_, err := client.ListOrders(context.Background())
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, 0, calls, "no request should be sent without a token")

	client = NewClient(Config{APIURL: ts.URL}, nil)
	err = client.DeleteOrder(context.Background(), 1)
	assert.ErrorIs(t, err, ErrAuthRequired)
	assert.Equal(t, 0, calls)
}

func TestDo_PublicEndpointSkipsAuth(t *testing.T) {
	var gotAuth string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[{"id":1,"name":"Arduino","price":"20.25","stock_quantity":3}]`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL + "/"}, staticToken("abc"))

	products, err := client.ListProducts(context.Background())
	require.NoError(t, err)
	assert.Empty(t, gotAuth)
	require.Len(t, products, 1)
	assert.True(t, decimal.RequireFromString("20.25").Equal(products[0].Price))
}

func TestDo_APIErrorMessage(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		w.Write([]byte(`{"message":"Invalid credentials"}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, nil)

	_, err := client.Login(context.Background(), "a@b.c", "nope")
	require.Error(t, err)
	var apiErr *ErrorResponse
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Equal(t, "Invalid credentials", err.Error())
}

func TestDo_APIErrorFallsBackToStatusText(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`<html>bad gateway</html>`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, nil)

	_, err := client.ListProducts(context.Background())
	require.Error(t, err)
	assert.Equal(t, "API Error: 502 Bad Gateway", err.Error())
}

func TestDo_EmptySuccessBody(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken("abc"))

	assert.NoError(t, client.DeleteMessage(context.Background(), 3))
	orders, err := client.ListOrders(context.Background())
	assert.NoError(t, err)
	assert.Empty(t, orders)
}

func TestDo_InvalidJSON(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`invalid-json`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, nil)

	_, err := client.ListProducts(context.Background())
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "invalid character")
}

func TestDo_BrotliResponse(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "br", r.Header.Get("Accept-Encoding"))
		var buf bytes.Buffer
		bw := brotli.NewWriter(&buf)
		bw.Write([]byte(`{"id":4,"name":"Sensor","price":1.8,"stock_quantity":10}`))
		bw.Close()
		w.Header().Set("Content-Encoding", "br")
		w.Write(buf.Bytes())
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, nil)

	p, err := client.GetProduct(context.Background(), 4)
	require.NoError(t, err)
	assert.Equal(t, "Sensor", p.Name)
	assert.Equal(t, 10, p.StockQuantity)
}

func TestCreateOrder_SendsNoPrices(t *testing.T) {
	var raw map[string]any
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/orders", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &raw))
		w.WriteHeader(http.StatusCreated)
		w.Write([]byte(`{"message":"Order created","orderId":42}`))
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken("abc"))

	resp, err := client.CreateOrder(context.Background(), CreateOrderRequest{
		ShippingAddress: "1 Main St",
		Items:           []OrderLine{{ProductID: 5, Quantity: 2}},
	})
	require.NoError(t, err)
	assert.Equal(t, 42, resp.OrderID)

	assert.Equal(t, "1 Main St", raw["shipping_address"])
	items := raw["items"].([]any)
	require.Len(t, items, 1)
	assert.Equal(t, map[string]any{"productId": float64(5), "quantity": float64(2)}, items[0])
}

func TestUpdateOrderPaymentStatus_Body(t *testing.T) {
	var path, body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.Method + " " + r.URL.Path
		b, _ := io.ReadAll(r.Body)
		body = string(b)
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken("abc"))

	require.NoError(t, client.UpdateOrderPaymentStatus(context.Background(), 9, model.PaymentStatusCompleted))
	assert.Equal(t, "PATCH /orders/9/payment-status", path)
	assert.JSONEq(t, `{"payment_status":"completed"}`, body)
}

func TestSendMessage_NullReceiver(t *testing.T) {
	var body string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b, _ := io.ReadAll(r.Body)
		body = string(b)
		w.WriteHeader(http.StatusCreated)
	}))
	defer ts.Close()

	client := NewClient(Config{APIURL: ts.URL}, staticToken("abc"))

	require.NoError(t, client.SendMessage(context.Background(), SendMessageRequest{Subject: "Hi", MessageText: "Where is my order?"}))
	assert.JSONEq(t, `{"receiverId":null,"subject":"Hi","messageText":"Where is my order?"}`, body)
}
