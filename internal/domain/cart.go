package domain

// Cart is the ordered list of variant IDs a visitor has chosen. The same
// variant may appear more than once.
type Cart struct {
	entries []int
}

// NewCart creates a cart holding a copy of entries.
func NewCart(entries []int) *Cart {
	c := &Cart{entries: make([]int, 0, len(entries))}
	c.entries = append(c.entries, entries...)
	return c
}

// AddToCart appends variantID to the end of the cart.
func (c *Cart) AddToCart(variantID int) {
	c.entries = append(c.entries, variantID)
}

// RemoveFromCart removes the first occurrence of variantID. The remaining
// entries keep their relative order. Removing an absent ID is a no-op.
func (c *Cart) RemoveFromCart(variantID int) {
	i := c.IndexOf(variantID)
	if i < 0 {
		return
	}

	next := make([]int, 0, len(c.entries)-1)
	next = append(next, c.entries[:i]...)
	next = append(next, c.entries[i+1:]...)
	c.entries = next
}

// IndexOf returns the index of the first occurrence of variantID, or -1.
func (c *Cart) IndexOf(variantID int) int {
	for i, id := range c.entries {
		if id == variantID {
			return i
		}
	}
	return -1
}

// IsEmpty reports whether the cart holds no entries.
func (c *Cart) IsEmpty() bool {
	return len(c.entries) == 0
}

// Len returns the number of entries.
func (c *Cart) Len() int {
	return len(c.entries)
}

// Entries returns a copy of the cart contents in order.
func (c *Cart) Entries() []int {
	out := make([]int, len(c.entries))
	copy(out, c.entries)
	return out
}
