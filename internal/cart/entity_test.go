// AngelaMos | 2026
// entity_test.go

package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestItemsValueAndScan(t *testing.T) {
	v, err := Items(nil).Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", v)

	v, err = Items{{ProductID: "p1", Quantity: 2}}.Value()
	require.NoError(t, err)
	assert.JSONEq(t, `[{"productId":"p1","quantity":2}]`, v.(string))

	var items Items
	require.NoError(t, items.Scan([]byte(`[{"productId":"p2","quantity":4}]`)))
	assert.Equal(t, Items{{ProductID: "p2", Quantity: 4}}, items)

	require.NoError(t, items.Scan(nil))
	assert.Equal(t, Items{}, items)

	assert.Error(t, items.Scan(42))
	assert.Error(t, items.Scan("{not json"))
}

func TestCartRetainReportsDrops(t *testing.T) {
	c := &Cart{Items: Items{
		{ProductID: "a", Quantity: 1},
		{ProductID: "b", Quantity: 2},
		{ProductID: "c", Quantity: 3},
	}}

	dropped := c.Retain(func(id string) bool { return id != "b" })

	assert.True(t, dropped)
	assert.Equal(t, []string{"a", "c"}, c.ProductIDs())
	assert.False(t, c.Retain(func(string) bool { return true }))
}

func TestCartRemove(t *testing.T) {
	c := &Cart{Items: Items{{ProductID: "a", Quantity: 1}}}

	assert.False(t, c.Remove("z"))
	assert.True(t, c.Remove("a"))
	assert.Empty(t, c.Items)
}
