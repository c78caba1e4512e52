package domain

import "errors"

var (
	// ErrInvalidVariantIndex is returned when a variant index falls outside
	// the product's variant list.
	ErrInvalidVariantIndex = errors.New("variant index out of range")

	// ErrPurchaseDisabled is returned when the selected variant cannot be
	// added to the cart because its stock is below the purchase threshold.
	ErrPurchaseDisabled = errors.New("purchase disabled for selected variant")
)
