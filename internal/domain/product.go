package domain

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/chrisdetmering/Product-Page/internal/eventbus"
)

// Stock thresholds.
const (
	almostSoldOutThreshold = 10
	purchaseThreshold      = 10
)

// StandardShippingCost is charged to non-premium visitors.
const StandardShippingCost = 2.99

// Variant is one purchasable option of a product.
type Variant struct {
	ID       int    `json:"id" yaml:"id" validate:"required"`
	Color    string `json:"color" yaml:"color" validate:"required"`
	Image    string `json:"image" yaml:"image" validate:"required"`
	Quantity int    `json:"quantity" yaml:"quantity" validate:"gte=0"`
}

// ProductInfo is the immutable catalog definition of a product.
type ProductInfo struct {
	Brand    string    `json:"brand" yaml:"brand" validate:"required"`
	Name     string    `json:"name" yaml:"name" validate:"required"`
	OnSale   bool      `json:"onSale" yaml:"onSale"`
	Details  []string  `json:"details" yaml:"details"`
	Sizes    []string  `json:"sizes" yaml:"sizes"`
	Variants []Variant `json:"variants" yaml:"variants" validate:"required,min=1,dive"`
}

// ProductState is the mutable part of a product.
type ProductState struct {
	Selected int      `json:"selected"`
	Reviews  []Review `json:"reviews"`
}

// CartSink receives the selected variant ID when the product adds to or
// removes from the cart.
type CartSink interface {
	AddToCart(variantID int)
	RemoveFromCart(variantID int)
}

// StockStatus is the availability band of the selected variant.
type StockStatus string

const (
	StockIn            StockStatus = "In Stock"
	StockAlmostSoldOut StockStatus = "Almost Sold Out!"
	StockOut           StockStatus = "Out of Stock"
)

// OutOfStock reports whether the band is the sold out band.
func (s StockStatus) OutOfStock() bool {
	return s == StockOut
}

// Shipping is a shipping charge. It encodes as the string "Free" or as the
// numeric cost.
type Shipping struct {
	Free bool
	Cost float64
}

// String formats the charge for display.
func (s Shipping) String() string {
	if s.Free {
		return "Free"
	}
	return strconv.FormatFloat(s.Cost, 'f', 2, 64)
}

// MarshalJSON implements json.Marshaler.
func (s Shipping) MarshalJSON() ([]byte, error) {
	if s.Free {
		return json.Marshal("Free")
	}
	return json.Marshal(s.Cost)
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *Shipping) UnmarshalJSON(data []byte) error {
	var label string
	if err := json.Unmarshal(data, &label); err == nil {
		if label != "Free" {
			return fmt.Errorf("unknown shipping label %q", label)
		}
		*s = Shipping{Free: true}
		return nil
	}

	var cost float64
	if err := json.Unmarshal(data, &cost); err != nil {
		return fmt.Errorf("shipping must be \"Free\" or a number: %w", err)
	}
	*s = Shipping{Cost: cost}
	return nil
}

// Product is a catalog entry with a selected variant and the reviews
// submitted for it.
type Product struct {
	info     ProductInfo
	selected int
	reviews  []Review
	cart     CartSink
}

// NewProduct builds a product from its catalog definition and state, and
// subscribes it to TopicReviewSubmitted on bus.
func NewProduct(info ProductInfo, state ProductState, cart CartSink, bus *eventbus.Bus) (*Product, error) {
	if len(info.Variants) == 0 {
		return nil, fmt.Errorf("product %q has no variants", info.Name)
	}

	p := &Product{info: info, cart: cart}
	if err := p.SelectVariant(state.Selected); err != nil {
		return nil, err
	}
	p.reviews = append(p.reviews, state.Reviews...)

	eventbus.Subscribe(bus, TopicReviewSubmitted, func(_ context.Context, r Review) {
		p.reviews = append(p.reviews, r)
	})

	return p, nil
}

// SelectVariant makes the variant at index the selected one.
func (p *Product) SelectVariant(index int) error {
	if index < 0 || index >= len(p.info.Variants) {
		return fmt.Errorf("select variant %d of %d: %w", index, len(p.info.Variants), ErrInvalidVariantIndex)
	}
	p.selected = index
	return nil
}

// AddToCart sends the selected variant ID to the cart.
func (p *Product) AddToCart() {
	p.cart.AddToCart(p.Variant().ID)
}

// RemoveFromCart asks the cart to drop one entry of the selected variant.
func (p *Product) RemoveFromCart() {
	p.cart.RemoveFromCart(p.Variant().ID)
}

// Info returns the catalog definition.
func (p *Product) Info() ProductInfo {
	return p.info
}

// Selected returns the selected variant index.
func (p *Product) Selected() int {
	return p.selected
}

// Variant returns the selected variant.
func (p *Product) Variant() Variant {
	return p.info.Variants[p.selected]
}

// Title is the brand followed by the product name.
func (p *Product) Title() string {
	return p.info.Brand + " " + p.info.Name
}

// Image returns the image of the selected variant.
func (p *Product) Image() string {
	return p.Variant().Image
}

// InStock returns the stock quantity of the selected variant.
func (p *Product) InStock() int {
	return p.Variant().Quantity
}

// StockStatus returns the availability band for the selected variant.
func (p *Product) StockStatus() StockStatus {
	switch n := p.InStock(); {
	case n > almostSoldOutThreshold:
		return StockIn
	case n > 0:
		return StockAlmostSoldOut
	default:
		return StockOut
	}
}

// SaleMessage returns the sale banner and true when the product is on sale.
func (p *Product) SaleMessage() (string, bool) {
	if !p.info.OnSale {
		return "", false
	}
	return p.Title() + " is on sale!", true
}

// Shipping returns the shipping charge for a premium or standard visitor.
func (p *Product) Shipping(premium bool) Shipping {
	if premium {
		return Shipping{Free: true}
	}
	return Shipping{Cost: StandardShippingCost}
}

// CanAddToCart reports whether the add-to-cart control is enabled. It is
// disabled below ten units, although ten units already shows the almost
// sold out warning.
func (p *Product) CanAddToCart() bool {
	return p.InStock() >= purchaseThreshold
}

// Reviews returns a copy of the reviews in submission order.
func (p *Product) Reviews() []Review {
	out := make([]Review, len(p.reviews))
	copy(out, p.reviews)
	return out
}

// State returns the serializable product state.
func (p *Product) State() ProductState {
	return ProductState{Selected: p.selected, Reviews: p.Reviews()}
}
