// Package cart holds the shopping cart state machine and its per-session persistence.
package cart

import (
	"maps"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/shopspring/decimal"
)

// Item is one cart line. Lines are keyed by product uid and selected options.
type Item struct {
	Product         catalog.Product   `json:"product"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
}

// State is the cart. Total and ItemCount are always derived from Items.
type State struct {
	Items     []Item          `json:"items"`
	Total     decimal.Decimal `json:"total"`
	ItemCount int             `json:"itemCount"`
}

// Empty returns a cart with no lines.
func Empty() State {
	return State{Items: []Item{}, Total: decimal.Zero}
}

func (s State) IsEmpty() bool {
	return len(s.Items) == 0
}

func (i Item) matches(productID string, options map[string]string) bool {
	return i.Product.UID == productID && sameOptions(i.SelectedOptions, options)
}

// sameOptions treats nil and empty option sets as equal.
func sameOptions(a, b map[string]string) bool {
	return maps.Equal(a, b)
}

func withTotals(items []Item) State {
	total := decimal.Zero
	count := 0
	for _, item := range items {
		total = total.Add(item.Product.Price.Mul(decimal.NewFromInt(int64(item.Quantity))))
		count += item.Quantity
	}
	if items == nil {
		items = []Item{}
	}
	return State{Items: items, Total: total, ItemCount: count}
}

func cloneItems(items []Item) []Item {
	out := make([]Item, 0, len(items))
	for _, item := range items {
		item.SelectedOptions = maps.Clone(item.SelectedOptions)
		out = append(out, item)
	}
	return out
}
