package entity

import (
	"errors"
	"fmt"
	"math"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidCart = errors.New("invalid cart")
	ErrInvalidItem = errors.New("invalid line item")
)

// LineItem is one product in the cart together with the desired quantity.
type LineItem struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	ImageURL string  `json:"image_url"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
}

// Validate rejects a price that cannot be summed or stored.
func (it LineItem) Validate() error {
	if !isFinite(it.Price) {
		return fmt.Errorf("%w: item %q has price %v", ErrInvalidItem, it.ID, it.Price)
	}
	return nil
}

// Cart is an ordered, id-unique collection of line items.
//
// A Cart value is immutable: every operation returns a new Cart and leaves
// the receiver untouched, so a value handed to a persister or a listener
// can never change underneath it.
type Cart struct {
	items []LineItem
}

// NewCart builds a cart from items as given. Non-finite prices are stored as
// zero so every cart can be totalled and encoded.
func NewCart(items ...LineItem) Cart {
	if len(items) == 0 {
		return Cart{}
	}
	c := Cart{items: make([]LineItem, len(items))}
	copy(c.items, items)
	for i := range c.items {
		c.items[i].Price = finitePrice(c.items[i].Price)
	}
	return c
}

// Items returns a copy of the line items in insertion order.
func (c Cart) Items() []LineItem {
	out := make([]LineItem, len(c.items))
	copy(out, c.items)
	return out
}

func (c Cart) Len() int {
	return len(c.items)
}

func (c Cart) IsEmpty() bool {
	return len(c.items) == 0
}

func (c Cart) Find(id string) (LineItem, bool) {
	i := c.index(id)
	if i < 0 {
		return LineItem{}, false
	}
	return c.items[i], true
}

// ItemCount is the sum of all quantities.
func (c Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}

// Total is the sum of price*quantity, computed in decimal to avoid float drift.
func (c Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		line := decimal.NewFromFloat(item.Price).Mul(decimal.NewFromInt(int64(item.Quantity)))
		total = total.Add(line)
	}
	return total
}

// AddItem merges candidate into the cart. An existing item with the same id
// gets its quantity bumped by one and keeps its own title, image and price.
// A new item is appended with quantity 1 whatever the candidate carried; a
// NaN or infinite price is stored as zero. Callers that must refuse such an
// item check LineItem.Validate first.
func (c Cart) AddItem(candidate LineItem) Cart {
	if i := c.index(candidate.ID); i >= 0 {
		next := c.clone(0)
		next.items[i].Quantity++
		return next
	}

	item := candidate
	item.Quantity = 1
	item.Price = finitePrice(item.Price)
	next := c.clone(1)
	next.items = append(next.items, item)
	return next
}

// Increment bumps the quantity of id by one. The bool reports whether the
// cart changed; an unknown id leaves it as is.
func (c Cart) Increment(id string) (Cart, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}
	next := c.clone(0)
	next.items[i].Quantity++
	return next, true
}

// Decrement lowers the quantity of id by one and drops the item once it
// would reach zero. An unknown id leaves the cart as is.
func (c Cart) Decrement(id string) (Cart, bool) {
	i := c.index(id)
	if i < 0 {
		return c, false
	}

	if c.items[i].Quantity > 1 {
		next := c.clone(0)
		next.items[i].Quantity--
		return next, true
	}

	next := Cart{items: make([]LineItem, 0, len(c.items)-1)}
	next.items = append(next.items, c.items[:i]...)
	next.items = append(next.items, c.items[i+1:]...)
	return next, true
}

// Validate checks the invariants a cart read from outside must hold:
// ids are unique and every quantity is at least one.
func (c Cart) Validate() error {
	seen := make(map[string]struct{}, len(c.items))
	for pos, item := range c.items {
		if item.Quantity < 1 {
			return fmt.Errorf("%w: item %q at position %d has quantity %d", ErrInvalidCart, item.ID, pos, item.Quantity)
		}
		if _, dup := seen[item.ID]; dup {
			return fmt.Errorf("%w: duplicate item id %q", ErrInvalidCart, item.ID)
		}
		seen[item.ID] = struct{}{}
	}
	return nil
}

func (c Cart) index(id string) int {
	for i, item := range c.items {
		if item.ID == id {
			return i
		}
	}
	return -1
}

func (c Cart) clone(extra int) Cart {
	next := Cart{items: make([]LineItem, len(c.items), len(c.items)+extra)}
	copy(next.items, c.items)
	return next
}

func isFinite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func finitePrice(p float64) float64 {
	if isFinite(p) {
		return p
	}
	return 0
}
