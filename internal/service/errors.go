package service

import "errors"

// Local precondition failures. None of these is returned after a remote
// call has been made.
var (
	ErrNotLoggedIn          = errors.New("please login first")
	ErrNotAdmin             = errors.New("admin access required")
	ErrMissingFields        = errors.New("all fields are required")
	ErrProductNotFound      = errors.New("product not found")
	ErrOutOfStock           = errors.New("product is out of stock")
	ErrStockLimit           = errors.New("cannot add more, max stock reached")
	ErrNotInCart            = errors.New("product is not in the cart")
	ErrEmptyCart            = errors.New("your cart is empty")
	ErrMissingAddress       = errors.New("please enter a shipping address")
	ErrMissingPaymentMethod = errors.New("please select a payment method")
	ErrInvalidStatus        = errors.New("invalid order status")
	ErrOrderNotDeletable    = errors.New("only cancelled orders can be deleted")
	ErrAdminUndeletable     = errors.New("admin accounts cannot be deleted")
	ErrEmptyMessage         = errors.New("message cannot be empty")
	ErrMissingReceiver      = errors.New("a receiver is required")
	ErrInvalidProduct       = errors.New("invalid product data")
	ErrCheckoutInProgress   = errors.New("a checkout is already in progress")
)

// IsPrecondition reports whether err is one of the local precondition errors.
func IsPrecondition(err error) bool {
	for _, target := range []error{
		ErrMissingFields, ErrProductNotFound, ErrOutOfStock, ErrStockLimit, ErrNotInCart,
		ErrEmptyCart, ErrMissingAddress, ErrMissingPaymentMethod, ErrInvalidStatus,
		ErrOrderNotDeletable, ErrAdminUndeletable, ErrEmptyMessage, ErrMissingReceiver,
		ErrInvalidProduct,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}
