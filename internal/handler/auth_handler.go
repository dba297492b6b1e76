package handler

import (
	"net/http"

	"fsanano/storefront/internal/model"
)

type sessionView struct {
	LoggedIn bool           `json:"logged_in"`
	User     *model.Session `json:"user,omitempty"`
	IsAdmin  bool           `json:"is_admin"`
}

func (h *Handler) currentSession() sessionView {
	sess, ok := h.sf.Session.Current()
	if !ok {
		return sessionView{}
	}
	return sessionView{LoggedIn: true, User: &sess, IsAdmin: sess.IsAdmin()}
}

func (h *Handler) GetSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.currentSession())
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	sess, err := h.sf.Session.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.toaster.Info("Welcome, " + sess.Username + "!")
	writeJSON(w, http.StatusOK, h.currentSession())
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := decodeJSON(r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	resp, err := h.sf.Session.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	h.toaster.Info("Registration successful! Please login.")
	writeJSON(w, http.StatusCreated, resp)
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	if err := h.sf.Session.Logout(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Logged out")
	w.WriteHeader(http.StatusNoContent)
}
