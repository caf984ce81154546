// Package cart holds the session cart value: product id to quantity.
package cart

import (
	"sort"
	"strconv"
)

// Cart keys are decimal product ids, kept as strings so the value
// round-trips through JSON session storage unchanged.
type Cart map[string]int

type Line struct {
	ProductID uint
	Quantity  int
}

func Key(productID uint) string {
	return strconv.FormatUint(uint64(productID), 10)
}

func (c Cart) Quantity(productID uint) int {
	return c[Key(productID)]
}

func (c Cart) Increment(productID uint) int {
	k := Key(productID)
	c[k]++
	return c[k]
}

// Decrement lowers the line by one and drops it at zero. It reports false
// when the product is not in the cart.
func (c Cart) Decrement(productID uint) (int, bool) {
	k := Key(productID)
	q, ok := c[k]
	if !ok {
		return 0, false
	}
	if q <= 1 {
		delete(c, k)
		return 0, true
	}
	c[k] = q - 1
	return q - 1, true
}

func (c Cart) Remove(productID uint) {
	delete(c, Key(productID))
}

func (c Cart) Empty() bool {
	return len(c) == 0
}

// Lines returns valid entries ordered by product id. Keys that are not ids
// and non-positive quantities are ignored.
func (c Cart) Lines() []Line {
	out := make([]Line, 0, len(c))
	for k, q := range c {
		id, err := strconv.ParseUint(k, 10, 64)
		if err != nil || id == 0 || q <= 0 {
			continue
		}
		out = append(out, Line{ProductID: uint(id), Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out
}

func (c Cart) TotalItems() int {
	n := 0
	for _, l := range c.Lines() {
		n += l.Quantity
	}
	return n
}

func (c Cart) Clone() Cart {
	out := make(Cart, len(c))
	for k, v := range c {
		out[k] = v
	}
	return out
}
