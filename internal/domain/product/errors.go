package product

import "errors"

var (
	ErrProductNotFound       = errors.New("product not found")
	ErrProductUnavailable    = errors.New("product unavailable")
	ErrInsufficientInventory = errors.New("insufficient inventory")
	ErrNotOwner              = errors.New("not the product owner")
	ErrSellerNotApproved     = errors.New("seller not approved")
)
