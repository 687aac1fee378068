package entity

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

var ErrMalformedCart = errors.New("malformed cart snapshot")

// MarshalJSON encodes the cart as a plain array of line items. An empty cart
// is written as [] rather than null.
func (c Cart) MarshalJSON() ([]byte, error) {
	if c.items == nil {
		return []byte("[]"), nil
	}
	return json.Marshal(c.items)
}

func (c *Cart) UnmarshalJSON(data []byte) error {
	var items []LineItem
	if err := json.Unmarshal(data, &items); err != nil {
		return err
	}
	*c = NewCart(items...)
	return nil
}

// UnmarshalJSON accepts any whole JSON number as the quantity, so 2.0 and 2e0
// load as 2. Fractional or out-of-range quantities are rejected.
func (it *LineItem) UnmarshalJSON(data []byte) error {
	type plain LineItem
	aux := struct {
		*plain
		Quantity json.Number `json:"quantity"`
	}{plain: (*plain)(it)}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	it.Quantity = 0
	if aux.Quantity == "" {
		return nil
	}
	if n, err := aux.Quantity.Int64(); err == nil && n >= math.MinInt32 && n <= math.MaxInt32 {
		it.Quantity = int(n)
		return nil
	}
	f, err := aux.Quantity.Float64()
	if err != nil || f != math.Trunc(f) || f < math.MinInt32 || f > math.MaxInt32 {
		return fmt.Errorf("item %q: quantity %s is not a whole number", it.ID, aux.Quantity)
	}
	it.Quantity = int(f)
	return nil
}

// MarshalCart serializes the cart into the stored snapshot format.
func MarshalCart(c Cart) ([]byte, error) {
	data, err := json.Marshal(c)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart: %w", err)
	}
	return data, nil
}

// UnmarshalCart parses a stored snapshot. Anything that is not a JSON array
// of valid line items yields ErrMalformedCart.
func UnmarshalCart(data []byte) (Cart, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return Cart{}, nil
	}

	var c Cart
	if err := json.Unmarshal(trimmed, &c); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	if err := c.Validate(); err != nil {
		return Cart{}, fmt.Errorf("%w: %v", ErrMalformedCart, err)
	}
	return c, nil
}
