package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarshalCart_FieldNames(t *testing.T) {
	cart := NewCart(LineItem{ID: "p1", Title: "Bike", ImageURL: "bike.png", Price: 120.5, Quantity: 2})

	data, err := MarshalCart(cart)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":"p1","title":"Bike","image_url":"bike.png","price":120.5,"quantity":2}]`, string(data))
}

func TestMarshalCart_EmptyIsArray(t *testing.T) {
	data, err := MarshalCart(NewCart())
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))

	emptied, _ := NewCart(LineItem{ID: "p1", Quantity: 1}).Decrement("p1")
	data, err = MarshalCart(emptied)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(data))
}

func TestUnmarshalCart_RoundTrip(t *testing.T) {
	cart := NewCart().
		AddItem(LineItem{ID: "p1", Title: "One", Price: 1.25}).
		AddItem(LineItem{ID: "p2", Title: "Two", Price: 3}).
		AddItem(LineItem{ID: "p1"})

	data, err := MarshalCart(cart)
	require.NoError(t, err)

	loaded, err := UnmarshalCart(data)
	require.NoError(t, err)
	assert.Equal(t, cart.Items(), loaded.Items())

	again, err := MarshalCart(loaded)
	require.NoError(t, err)
	assert.Equal(t, data, again)
}

func TestUnmarshalCart_EmptyInputs(t *testing.T) {
	for _, in := range []string{"", "  ", "null", "[]"} {
		cart, err := UnmarshalCart([]byte(in))
		require.NoError(t, err, "input %q", in)
		assert.True(t, cart.IsEmpty(), "input %q", in)
	}
}

func TestUnmarshalCart_Malformed(t *testing.T) {
	cases := map[string]string{
		"not json":        `{{{`,
		"object":          `{"id":"p1"}`,
		"wrong type":      `[{"id":"p1","quantity":"two"}]`,
		"fractional qty":  `[{"id":"p1","quantity":1.5}]`,
		"huge quantity":   `[{"id":"p1","quantity":1e300}]`,
		"zero quantity":   `[{"id":"p1","quantity":0}]`,
		"duplicate ids":   `[{"id":"p1","quantity":1},{"id":"p1","quantity":1}]`,
		"truncated array": `[{"id":"p1","quantity":1}`,
	}
	for name, in := range cases {
		t.Run(name, func(t *testing.T) {
			cart, err := UnmarshalCart([]byte(in))
			assert.ErrorIs(t, err, ErrMalformedCart)
			assert.True(t, cart.IsEmpty())
		})
	}
}

func TestUnmarshalCart_WholeFloatQuantities(t *testing.T) {
	in := `[{"id":"p1","title":"One","price":2,"quantity":2.0},{"id":"p2","quantity":3e0},{"id":"p3","quantity":4}]`

	cart, err := UnmarshalCart([]byte(in))
	require.NoError(t, err)

	quantities := make([]int, 0, cart.Len())
	for _, it := range cart.Items() {
		quantities = append(quantities, it.Quantity)
	}
	assert.Equal(t, []int{2, 3, 4}, quantities)

	item, _ := cart.Find("p1")
	assert.Equal(t, "One", item.Title)
	assert.Equal(t, 2.0, item.Price)
}
