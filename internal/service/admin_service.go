package service

import (
	"context"
	"strings"
	"sync"

	"fsanano/storefront/internal/event"
	"fsanano/storefront/internal/model"
	"fsanano/storefront/internal/service/storeapi"

	"github.com/shopspring/decimal"
)

type ProductAPI interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id int) (*model.Product, error)
	CreateProduct(ctx context.Context, in storeapi.ProductInput) error
	UpdateProduct(ctx context.Context, id int, in storeapi.ProductInput) error
	DeleteProduct(ctx context.Context, id int) error
}

// ProductForm is the admin add/edit form. ID zero means a new product.
type ProductForm struct {
	ID            int             `json:"id"`
	Name          string          `json:"name"`
	Category      string          `json:"category"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	ImageURL      string          `json:"image_url"`
	Description   string          `json:"description"`
}

func (f ProductForm) validate() error {
	if strings.TrimSpace(f.Name) == "" || f.Price.IsNegative() || f.StockQuantity < 0 {
		return ErrInvalidProduct
	}
	return nil
}

func (f ProductForm) input() storeapi.ProductInput {
	return storeapi.ProductInput{
		Name:          strings.TrimSpace(f.Name),
		Description:   f.Description,
		Price:         f.Price.Round(2),
		Category:      strings.TrimSpace(f.Category),
		StockQuantity: f.StockQuantity,
		ImageURL:      strings.TrimSpace(f.ImageURL),
	}
}

// ProductAdmin is the admin product table. Mutations publish
// ProductsChanged, which refreshes this table and the public catalog.
type ProductAdmin struct {
	api     ProductAPI
	session SessionReader
	bus     *event.Bus

	mu   sync.RWMutex
	rows []model.Product
}

func NewProductAdmin(api ProductAPI, session SessionReader, bus *event.Bus) *ProductAdmin {
	return &ProductAdmin{api: api, session: session, bus: bus}
}

func (a *ProductAdmin) Refresh(ctx context.Context) error {
	if err := requireAdmin(a.session); err != nil {
		a.setRows(nil)
		return nil
	}
	products, err := a.api.ListProducts(ctx)
	if err != nil {
		return err
	}
	a.setRows(products)
	return nil
}

func (a *ProductAdmin) Rows() []model.Product {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return clone(a.rows)
}

// Edit loads a product into the form.
func (a *ProductAdmin) Edit(ctx context.Context, id int) (ProductForm, error) {
	if err := requireAdmin(a.session); err != nil {
		return ProductForm{}, err
	}
	p, err := a.api.GetProduct(ctx, id)
	if err != nil {
		return ProductForm{}, err
	}
	return ProductForm{
		ID:            p.ID,
		Name:          p.Name,
		Category:      p.Category,
		Price:         p.Price,
		StockQuantity: p.StockQuantity,
		ImageURL:      p.ImageURL,
		Description:   p.Description,
	}, nil
}

// Save creates or updates the product described by form.
func (a *ProductAdmin) Save(ctx context.Context, form ProductForm) error {
	if err := requireAdmin(a.session); err != nil {
		return err
	}
	if err := form.validate(); err != nil {
		return err
	}

	var err error
	if form.ID == 0 {
		err = a.api.CreateProduct(ctx, form.input())
	} else {
		err = a.api.UpdateProduct(ctx, form.ID, form.input())
	}
	if err != nil {
		return err
	}
	_ = a.bus.Publish(ctx, event.ProductsChanged)
	return nil
}

func (a *ProductAdmin) Delete(ctx context.Context, id int) error {
	if err := requireAdmin(a.session); err != nil {
		return err
	}
	if err := a.api.DeleteProduct(ctx, id); err != nil {
		return err
	}
	_ = a.bus.Publish(ctx, event.ProductsChanged)
	return nil
}

func (a *ProductAdmin) setRows(rows []model.Product) {
	a.mu.Lock()
	a.rows = rows
	a.mu.Unlock()
}

type UserAPI interface {
	ListUsers(ctx context.Context) ([]model.User, error)
	GetUser(ctx context.Context, id int) (*model.User, error)
	DeleteUser(ctx context.Context, id int) error
}

// UserAdmin is the admin user table. Deleting a user also removes their
// orders on the API side, so order tables are refreshed too.
type UserAdmin struct {
	api     UserAPI
	session SessionReader
	bus     *event.Bus

	mu   sync.RWMutex
	rows []model.User
}

func NewUserAdmin(api UserAPI, session SessionReader, bus *event.Bus) *UserAdmin {
	return &UserAdmin{api: api, session: session, bus: bus}
}

func (a *UserAdmin) Refresh(ctx context.Context) error {
	if err := requireAdmin(a.session); err != nil {
		a.setRows(nil)
		return nil
	}
	users, err := a.api.ListUsers(ctx)
	if err != nil {
		return err
	}
	a.setRows(users)
	return nil
}

func (a *UserAdmin) Rows() []model.User {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return clone(a.rows)
}

func (a *UserAdmin) CanDelete(u model.User) bool {
	return u.Role != model.RoleAdmin
}

func (a *UserAdmin) Delete(ctx context.Context, id int) error {
	if err := requireAdmin(a.session); err != nil {
		return err
	}

	u, ok := a.row(id)
	if !ok {
		fetched, err := a.api.GetUser(ctx, id)
		if err != nil {
			return err
		}
		u = *fetched
	}
	if !a.CanDelete(u) {
		return ErrAdminUndeletable
	}

	if err := a.api.DeleteUser(ctx, id); err != nil {
		return err
	}
	_ = a.bus.Publish(ctx, event.UsersChanged, event.OrdersChanged)
	return nil
}

func (a *UserAdmin) row(id int) (model.User, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	for _, u := range a.rows {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

func (a *UserAdmin) setRows(rows []model.User) {
	a.mu.Lock()
	a.rows = rows
	a.mu.Unlock()
}
