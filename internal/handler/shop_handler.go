package handler

import (
	"fmt"
	"net/http"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service"

	"github.com/shopspring/decimal"
)

type productView struct {
	model.Product
	DisplayPrice string `json:"display_price"`
	InStock      bool   `json:"in_stock"`
}

func (h *Handler) renderProduct(p model.Product) productView {
	return productView{Product: p, DisplayPrice: h.currency.Format(p.Price), InStock: p.StockQuantity > 0}
}

func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products := h.sf.Catalog.Products()
	if !h.sf.Catalog.Loaded() {
		var err error
		if products, err = h.sf.Catalog.Refresh(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
	}

	views := make([]productView, 0, len(products))
	for _, p := range products {
		views = append(views, h.renderProduct(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) GetProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	p, err := h.sf.Catalog.Product(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.renderProduct(p))
}

func (h *Handler) RefreshProducts(w http.ResponseWriter, r *http.Request) {
	if _, err := h.sf.Catalog.Refresh(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.ListProducts(w, r)
}

type cartItemView struct {
	model.CartItem
	DisplayPrice string `json:"display_price"`
	LineTotal    string `json:"line_total"`
}

type cartView struct {
	Items    []cartItemView  `json:"items"`
	Count    int             `json:"count"`
	TotalUSD decimal.Decimal `json:"total_usd"`
	Total    string          `json:"total"`
}

func (h *Handler) cart() cartView {
	items := h.sf.Cart.Items()
	view := cartView{Items: make([]cartItemView, 0, len(items)), Count: len(items)}
	for _, it := range items {
		line := it.ProductDetails.Price.Mul(decimal.NewFromInt(int64(it.Quantity)))
		view.Items = append(view.Items, cartItemView{
			CartItem:     it,
			DisplayPrice: h.currency.Format(it.ProductDetails.Price),
			LineTotal:    h.currency.Format(line),
		})
	}
	view.TotalUSD = h.sf.Cart.TotalUSD()
	view.Total = h.currency.Format(view.TotalUSD)
	return view
}

func (h *Handler) GetCart(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.cart())
}

type AddToCartRequest struct {
	ProductID int `json:"product_id"`
}

func (h *Handler) AddToCart(w http.ResponseWriter, r *http.Request) {
	var req AddToCartRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	item, err := h.sf.Cart.Add(r.Context(), req.ProductID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.toaster.Info(item.ProductDetails.Name + " added to cart!")
	writeJSON(w, http.StatusOK, h.cart())
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

func (h *Handler) SetCartQuantity(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req SetQuantityRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	item, clamped, err := h.sf.Cart.SetQuantity(r.Context(), id, req.Quantity)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if clamped {
		h.toaster.Error(fmt.Sprintf("Only %d of %s in stock", item.Quantity, item.ProductDetails.Name))
	}
	writeJSON(w, http.StatusOK, h.cart())
}

func (h *Handler) RemoveFromCart(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "productID")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.sf.Cart.Remove(r.Context(), id)
	writeJSON(w, http.StatusOK, h.cart())
}

func (h *Handler) ClearCart(w http.ResponseWriter, r *http.Request) {
	h.sf.Cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, h.cart())
}

type CheckoutRequest struct {
	ShippingAddress string `json:"shipping_address"`
	PaymentMethod   string `json:"payment_method"`
}

type checkoutView struct {
	*service.CheckoutResult
	DisplayTotal string `json:"display_total"`
}

func (h *Handler) Checkout(w http.ResponseWriter, r *http.Request) {
	var req CheckoutRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	res, err := h.sf.Cart.Checkout(r.Context(), req.ShippingAddress, req.PaymentMethod)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if res.Approved {
		h.toaster.Info(fmt.Sprintf("Payment successful! Order #%d placed.", res.OrderID))
	} else {
		h.toaster.Error(fmt.Sprintf("Payment failed for order #%d.", res.OrderID))
	}
	writeJSON(w, http.StatusOK, checkoutView{CheckoutResult: res, DisplayTotal: h.currency.Format(res.Total)})
}
