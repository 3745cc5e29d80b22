// AngelaMos | 2026
// entity.go

package cart

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type Item struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// Items is stored as a single JSONB array and rewritten as a whole on
// every save.
type Items []Item

func (it Items) Value() (driver.Value, error) {
	if it == nil {
		return "[]", nil
	}
	b, err := json.Marshal([]Item(it))
	if err != nil {
		return nil, fmt.Errorf("encode cart items: %w", err)
	}
	return string(b), nil
}

func (it *Items) Scan(src any) error {
	var data []byte
	switch v := src.(type) {
	case nil:
		*it = Items{}
		return nil
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("scan cart items: unsupported type %T", src)
	}

	var items []Item
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("decode cart items: %w", err)
	}
	if items == nil {
		items = []Item{}
	}
	*it = items
	return nil
}

type Cart struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	Items     Items     `db:"items"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// Add sums quantities for a product already in the cart and appends a new
// line otherwise.
func (c *Cart) Add(productID string, quantity int) {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items[i].Quantity += quantity
			return
		}
	}
	c.Items = append(c.Items, Item{ProductID: productID, Quantity: quantity})
}

// Remove drops the line for productID and reports whether one existed.
func (c *Cart) Remove(productID string) bool {
	for i := range c.Items {
		if c.Items[i].ProductID == productID {
			c.Items = append(c.Items[:i], c.Items[i+1:]...)
			return true
		}
	}
	return false
}

// Retain keeps only the lines whose product passes keep and reports
// whether anything was dropped.
func (c *Cart) Retain(keep func(productID string) bool) bool {
	kept := c.Items[:0]
	for _, item := range c.Items {
		if keep(item.ProductID) {
			kept = append(kept, item)
		}
	}
	dropped := len(kept) != len(c.Items)
	c.Items = kept
	return dropped
}

func (c *Cart) ProductIDs() []string {
	ids := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		ids = append(ids, item.ProductID)
	}
	return ids
}
