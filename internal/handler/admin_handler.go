package handler

import (
	"net/http"

	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service"
)

func (h *Handler) AdminListProducts(w http.ResponseWriter, r *http.Request) {
	if err := h.sf.AdminProducts.Refresh(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	rows := h.sf.AdminProducts.Rows()
	views := make([]productView, 0, len(rows))
	for _, p := range rows {
		views = append(views, h.renderProduct(p))
	}
	writeJSON(w, http.StatusOK, views)
}

func (h *Handler) AdminEditProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	form, err := h.sf.AdminProducts.Edit(r.Context(), id)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, form)
}

func (h *Handler) AdminCreateProduct(w http.ResponseWriter, r *http.Request) {
	var form service.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		h.fail(w, r, err)
		return
	}
	form.ID = 0
	h.saveProduct(w, r, form, http.StatusCreated, "Product added")
}

func (h *Handler) AdminUpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	var form service.ProductForm
	if err := decodeJSON(r, &form); err != nil {
		h.fail(w, r, err)
		return
	}
	form.ID = id
	h.saveProduct(w, r, form, http.StatusOK, "Product updated")
}

func (h *Handler) saveProduct(w http.ResponseWriter, r *http.Request, form service.ProductForm, status int, msg string) {
	if err := h.sf.AdminProducts.Save(r.Context(), form); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info(msg)
	writeJSON(w, status, h.sf.AdminProducts.Rows())
}

func (h *Handler) AdminDeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sf.AdminProducts.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("Product deleted")
	writeJSON(w, http.StatusOK, h.sf.AdminProducts.Rows())
}

type userView struct {
	model.User
	CanDelete bool `json:"can_delete"`
}

func (h *Handler) renderUsers() []userView {
	rows := h.sf.AdminUsers.Rows()
	views := make([]userView, 0, len(rows))
	for _, u := range rows {
		views = append(views, userView{User: u, CanDelete: h.sf.AdminUsers.CanDelete(u)})
	}
	return views
}

func (h *Handler) AdminListUsers(w http.ResponseWriter, r *http.Request) {
	if err := h.sf.AdminUsers.Refresh(r.Context()); err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, h.renderUsers())
}

func (h *Handler) AdminDeleteUser(w http.ResponseWriter, r *http.Request) {
	id, err := idParam(r, "id")
	if err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.sf.AdminUsers.Delete(r.Context(), id); err != nil {
		h.fail(w, r, err)
		return
	}
	h.toaster.Info("User deleted")
	writeJSON(w, http.StatusOK, h.renderUsers())
}
