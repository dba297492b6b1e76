package handler

import (
	"net/http"

	"fsanano/storefront/internal/currency"
	"fsanano/storefront/internal/notify"
	"fsanano/storefront/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Handler exposes the storefront views as a local JSON API.
type Handler struct {
	router   *chi.Mux
	sf       *service.Storefront
	currency *currency.Converter
	toaster  *notify.Toaster
}

func NewHandler(sf *service.Storefront, conv *currency.Converter, toaster *notify.Toaster) *Handler {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	h := &Handler{
		router:   router,
		sf:       sf,
		currency: conv,
		toaster:  toaster,
	}

	h.registerRoutes()
	return h
}

func (h *Handler) registerRoutes() {
	h.router.Route("/v1", func(r chi.Router) {
		r.Get("/health", h.HealthCheck)

		r.Get("/session", h.GetSession)
		r.Post("/auth/login", h.Login)
		r.Post("/auth/register", h.Register)
		r.Post("/auth/logout", h.Logout)

		r.Get("/products", h.ListProducts)
		r.Get("/products/{id}", h.GetProduct)
		r.Post("/products/refresh", h.RefreshProducts)

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.GetCart)
			r.Delete("/", h.ClearCart)
			r.Post("/items", h.AddToCart)
			r.Put("/items/{productID}", h.SetCartQuantity)
			r.Delete("/items/{productID}", h.RemoveFromCart)
			r.Post("/checkout", h.Checkout)
		})

		r.Get("/orders", h.ListMyOrders)
		r.Get("/orders/{id}", h.GetMyOrder)
		r.Delete("/orders/{id}", h.DeleteMyOrder)

		r.Get("/messages", h.ListInbox)
		r.Get("/messages/{id}", h.OpenMessage)
		r.Post("/messages", h.SendMessage)
		r.With(h.requireAdmin).Post("/messages/{id}/reply", h.ReplyMessage)

		r.Get("/currency", h.GetCurrency)
		r.Put("/currency", h.SetCurrency)
		r.Get("/toast", h.GetToast)
		r.Delete("/toast", h.DismissToast)

		r.Route("/admin", func(r chi.Router) {
			r.Use(h.requireAdmin)

			r.Get("/products", h.AdminListProducts)
			r.Post("/products", h.AdminCreateProduct)
			r.Get("/products/{id}", h.AdminEditProduct)
			r.Put("/products/{id}", h.AdminUpdateProduct)
			r.Delete("/products/{id}", h.AdminDeleteProduct)

			r.Get("/orders", h.AdminListOrders)
			r.Patch("/orders/{id}/status", h.AdminSetOrderStatus)
			r.Delete("/orders/{id}", h.AdminDeleteOrder)

			r.Get("/users", h.AdminListUsers)
			r.Delete("/users/{id}", h.AdminDeleteUser)

			r.Get("/messages", h.AdminListMessages)
			r.Delete("/messages/{id}", h.AdminDeleteMessage)

			r.Get("/charts", h.AdminCharts)
		})
	})
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.router.ServeHTTP(w, r)
}

func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// requireAdmin hides the admin views from everyone but admin sessions.
func (h *Handler) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sess, ok := h.sf.Session.Current()
		if !ok {
			h.fail(w, r, service.ErrNotLoggedIn)
			return
		}
		if !sess.IsAdmin() {
			h.fail(w, r, service.ErrNotAdmin)
			return
		}
		next.ServeHTTP(w, r)
	})
}
