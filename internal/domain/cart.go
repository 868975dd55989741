package domain

// CartLine is one row of a persisted cart.
type CartLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Cart is an ordered list of lines, unique by ProductID.
type Cart struct {
	Lines []CartLine `json:"lines"`
}

// Find returns the index of the line holding productID, or -1.
func (c Cart) Find(productID string) int {
	for i, line := range c.Lines {
		if line.ProductID == productID {
			return i
		}
	}
	return -1
}

// TotalQuantity sums quantities across all lines.
func (c Cart) TotalQuantity() int {
	total := 0
	for _, line := range c.Lines {
		total += line.Quantity
	}
	return total
}

// Clone returns a deep copy so callers can mutate without aliasing.
func (c Cart) Clone() Cart {
	if len(c.Lines) == 0 {
		return Cart{Lines: []CartLine{}}
	}
	lines := make([]CartLine, len(c.Lines))
	copy(lines, c.Lines)
	return Cart{Lines: lines}
}
