package domain

// Tab names one of the panels under the product.
type Tab string

const (
	TabReviews    Tab = "Reviews"
	TabMakeReview Tab = "Make a Review"
)

// Tabs returns the known tabs in display order.
func Tabs() []Tab {
	return []Tab{TabReviews, TabMakeReview}
}

// TabSelector tracks the active tab. Any name is accepted; an unknown name
// simply leaves no known panel active.
type TabSelector struct {
	active Tab
}

// NewTabSelector returns a selector with the given active tab, or
// TabReviews when active is empty.
func NewTabSelector(active Tab) *TabSelector {
	if active == "" {
		active = TabReviews
	}
	return &TabSelector{active: active}
}

// Select sets the active tab.
func (s *TabSelector) Select(name Tab) {
	s.active = name
}

// Active returns the active tab.
func (s *TabSelector) Active() Tab {
	return s.active
}

// IsActive reports whether name is the active tab.
func (s *TabSelector) IsActive(name Tab) bool {
	return s.active == name
}
