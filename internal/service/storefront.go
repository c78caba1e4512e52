package service

import (
	"fmt"

	"github.com/chrisdetmering/Product-Page/internal/domain"
	"github.com/chrisdetmering/Product-Page/internal/eventbus"
)

// Storefront is one visitor's page: a cart, the product, the tab selector
// and the review form, all connected through a private bus.
type Storefront struct {
	bus     *eventbus.Bus
	cart    *domain.Cart
	product *domain.Product
	tabs    *domain.TabSelector
	form    *domain.ReviewForm
	premium bool
}

// NewStorefront rebuilds a storefront from a session snapshot.
func NewStorefront(info domain.ProductInfo, session *domain.Session, premium bool) (*Storefront, error) {
	bus := eventbus.New()
	cart := domain.NewCart(session.Cart)

	product, err := domain.NewProduct(info, domain.ProductState{
		Selected: session.Selected,
		Reviews:  session.Reviews,
	}, cart, bus)
	if err != nil {
		return nil, fmt.Errorf("restore product: %w", err)
	}

	return &Storefront{
		bus:     bus,
		cart:    cart,
		product: product,
		tabs:    domain.NewTabSelector(session.ActiveTab),
		form:    domain.NewReviewForm(bus, session.Form),
		premium: premium,
	}, nil
}

// Bus returns the storefront's notification channel.
func (sf *Storefront) Bus() *eventbus.Bus {
	return sf.bus
}

// Cart returns the cart store.
func (sf *Storefront) Cart() *domain.Cart {
	return sf.cart
}

// Product returns the displayed product.
func (sf *Storefront) Product() *domain.Product {
	return sf.product
}

// Tabs returns the tab selector.
func (sf *Storefront) Tabs() *domain.TabSelector {
	return sf.tabs
}

// Form returns the review form.
func (sf *Storefront) Form() *domain.ReviewForm {
	return sf.form
}

// AddToCart adds the selected variant unless its stock disables purchase.
func (sf *Storefront) AddToCart() error {
	if !sf.product.CanAddToCart() {
		return domain.ErrPurchaseDisabled
	}
	sf.product.AddToCart()
	return nil
}

// Snapshot writes the storefront state into session.
func (sf *Storefront) Snapshot(session *domain.Session) {
	state := sf.product.State()
	session.Cart = sf.cart.Entries()
	session.Selected = state.Selected
	session.Reviews = state.Reviews
	session.Form = sf.form.State()
	session.ActiveTab = sf.tabs.Active()
}
