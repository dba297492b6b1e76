package handler

import (
	"net/http"
	"strconv"

	"fsanano/storefront/internal/chart"
)

type currencyView struct {
	Code   string   `json:"code"`
	Symbol string   `json:"symbol"`
	Rate   string   `json:"rate"`
	Codes  []string `json:"codes"`
}

func (h *Handler) currentCurrency() currencyView {
	cur := h.currency.Current()
	return currencyView{Code: cur.Code, Symbol: cur.Symbol, Rate: cur.Rate.String(), Codes: h.currency.Codes()}
}

func (h *Handler) GetCurrency(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentCurrency())
}

type SetCurrencyRequest struct {
	Code string `json:"code"`
}

// SetCurrency switches the display currency. Every later price view is
// rendered in it.
func (h *Handler) SetCurrency(w http.ResponseWriter, r *http.Request) {
	var req SetCurrencyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.currency.Set(req.Code); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.currentCurrency())
}

func (h *Handler) GetToast(w http.ResponseWriter, r *http.Request) {
	toast, ok := h.toaster.Current()
	if !ok {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	writeJSON(w, http.StatusOK, toast)
}

func (h *Handler) DismissToast(w http.ResponseWriter, r *http.Request) {
	h.toaster.Dismiss()
	w.WriteHeader(http.StatusNoContent)
}

const defaultLabelWidth = 16

func (h *Handler) AdminCharts(w http.ResponseWriter, r *http.Request) {
	width := defaultLabelWidth
	if v := r.URL.Query().Get("max_chars"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			h.fail(w, r, errInvalidBody)
			return
		}
		width = n
	}
	writeJSON(w, http.StatusOK, chart.Dashboard(width))
}
