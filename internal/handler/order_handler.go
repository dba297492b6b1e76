package handler

import (
	"net/http"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service"
)

type orderView struct {
	model.Order
	DisplayTotal string `json:"display_total"`
	CanDelete    bool   `json:"can_delete"`
}

type orderItemView struct {
	model.OrderItem
	DisplayPrice string `json:"display_price"`
}

type orderDetailView struct {
	orderView
	Items []orderItemView `json:"items"`
}

func (h *Handler) renderOrders(list *service.OrderList) []orderView {
	rows := list.Rows()
	views := make([]orderView, 0, len(rows))
	for _, o := range rows {
		views = append(views, orderView{Order: o, DisplayTotal: h.currency.Format(o.TotalAmount), CanDelete: list.CanDelete(o)})
	}
	return views
}

func (h *Handler) renderOrderDetail(list *service.OrderList, o *model.Order) orderDetailView {
	view := orderDetailView{
		orderView: orderView{Order: *o, DisplayTotal: h.currency.Format(o.TotalAmount), CanDelete: list.CanDelete(*o)},
		Items:     make([]orderItemView, 0, len(o.Items)),
	}
	for _, it := range o.Items {
		view.Items = append(view.Items, orderItemView{OrderItem: it, DisplayPrice: h.currency.Format(it.PriceAtPurchase)})
	}
	return view
}

func (h *Handler) listOrders(list *service.OrderList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, ok := h.sf.Session.Current(); !ok {
			h.fail(w, r, service.ErrNotLoggedIn)
			return
		}
		if err := list.Refresh(r.Context()); err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, h.renderOrders(list))
	}
}

func (h *Handler) orderDetail(list *service.OrderList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		o, err := list.Detail(r.Context(), id)
		if err != nil {
			h.fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, h.renderOrderDetail(list, o))
	}
}

func (h *Handler) deleteOrder(list *service.OrderList) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := idParam(r, "id")
		if err != nil {
			h.fail(w, r, err)
			return
		}
		if err := list.Delete(r.Context(), id); err != nil {
			h.fail(w, r, err)
			return
		}
		h.toaster.Info("Order deleted")
		writeJSON(w, http.StatusOK, h.renderOrders(list))
	}
}

func (h *Handler) ListMyOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(h.sf.MyOrders)(w, r)
}

func (h *Handler) GetMyOrder(w http.ResponseWriter, r *http.Request) {
	h.orderDetail(h.sf.MyOrders)(w, r)
}

func (h *Handler) DeleteMyOrder(w http.ResponseWriter, r *http.Request) {
	h.deleteOrder(h.sf.MyOrders)(w, r)
}

func (h *Handler) AdminListOrders(w http.ResponseWriter, r *http.Request) {
	h.listOrders(h.sf.AdminOrders)(w, r)
}

func (h *Handler) AdminDeleteOrder(w http.ResponseWriter, r *http.Request) {
	h.deleteOrder(h.sf.AdminOrders)(w, r)
}

type SetStatusRequest struct {
	Status model.OrderStatus `json:"status"`
}

func (h *Handler) AdminSetOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var req SetStatusRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sf.AdminOrders.SetStatus(r.Context(), id, req.Status); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Order status updated")
	writeJSON(w, http.StatusOK, h.renderOrders(h.sf.AdminOrders))
}
