package service

import (
	"github.com/chrisdetmering/Product-Page/internal/domain"
)

// View is everything the page shows for one session. The HTML page and the
// JSON API both render it.
type View struct {
	SessionID    string                 `json:"session_id"`
	Title        string                 `json:"title"`
	Image        string                 `json:"image"`
	InStock      int                    `json:"in_stock"`
	StockMessage string                 `json:"stock_message"`
	OutOfStock   bool                   `json:"out_of_stock"`
	SaleMessage  *string                `json:"sale_message,omitempty"`
	Premium      bool                   `json:"premium"`
	Shipping     domain.Shipping        `json:"shipping"`
	Details      []string               `json:"details"`
	Sizes        []string               `json:"sizes"`
	Variants     []VariantView          `json:"variants"`
	CanAddToCart bool                   `json:"can_add_to_cart"`
	Cart         []int                  `json:"cart"`
	CartEmpty    bool                   `json:"cart_empty"`
	Tabs         []TabView              `json:"tabs"`
	ActiveTab    domain.Tab             `json:"active_tab"`
	Reviews      []domain.Review        `json:"reviews"`
	Form         domain.ReviewFormState `json:"form"`
}

// VariantView is one entry of the color picker.
type VariantView struct {
	Index    int    `json:"index"`
	ID       int    `json:"id"`
	Color    string `json:"color"`
	Image    string `json:"image"`
	Selected bool   `json:"selected"`
}

// TabView is one tab header.
type TabView struct {
	Name   domain.Tab `json:"name"`
	Active bool       `json:"active"`
}

// CartCount returns the number of cart entries.
func (v *View) CartCount() int {
	return len(v.Cart)
}

// ShowReviews reports whether the reviews panel is visible.
func (v *View) ShowReviews() bool {
	return v.ActiveTab == domain.TabReviews
}

// ShowReviewForm reports whether the review form panel is visible.
func (v *View) ShowReviewForm() bool {
	return v.ActiveTab == domain.TabMakeReview
}

func newView(sessionID string, sf *Storefront) *View {
	p := sf.product
	info := p.Info()
	status := p.StockStatus()

	v := &View{
		SessionID:    sessionID,
		Title:        p.Title(),
		Image:        p.Image(),
		InStock:      p.InStock(),
		StockMessage: string(status),
		OutOfStock:   status.OutOfStock(),
		Premium:      sf.premium,
		Shipping:     p.Shipping(sf.premium),
		Details:      nonNil(info.Details),
		Sizes:        nonNil(info.Sizes),
		CanAddToCart: p.CanAddToCart(),
		Cart:         sf.cart.Entries(),
		CartEmpty:    sf.cart.IsEmpty(),
		ActiveTab:    sf.tabs.Active(),
		Reviews:      p.Reviews(),
		Form:         sf.form.State(),
	}

	if msg, ok := p.SaleMessage(); ok {
		v.SaleMessage = &msg
	}
	if v.Form.Errors == nil {
		v.Form.Errors = []string{}
	}

	for i, variant := range info.Variants {
		v.Variants = append(v.Variants, VariantView{
			Index:    i,
			ID:       variant.ID,
			Color:    variant.Color,
			Image:    variant.Image,
			Selected: i == p.Selected(),
		})
	}

	for _, tab := range domain.Tabs() {
		v.Tabs = append(v.Tabs, TabView{Name: tab, Active: sf.tabs.IsActive(tab)})
	}

	return v
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
