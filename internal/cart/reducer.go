package cart

import (
	"maps"

	"github.com/demolux/storefront/internal/catalog"
)

// Action is a cart transition.
type Action interface {
	Name() string
}

// AddItem merges into the line with the same product and options, or appends one.
// A quantity of zero or less adds one.
type AddItem struct {
	Product  catalog.Product
	Quantity int
	Options  map[string]string
}

// RemoveItem drops lines of a product. Nil Options removes every line of the
// product; otherwise only the line with exactly those options.
type RemoveItem struct {
	ProductID string
	Options   map[string]string
}

// UpdateQuantity sets the quantity of the matching lines. A quantity of zero or
// less behaves as RemoveItem with the same key.
type UpdateQuantity struct {
	ProductID string
	Options   map[string]string
	Quantity  int
}

type ClearCart struct{}

// LoadCart replaces the state wholesale. Totals are recomputed from the items.
type LoadCart struct {
	State State
}

func (AddItem) Name() string        { return "add_item" }
func (RemoveItem) Name() string     { return "remove_item" }
func (UpdateQuantity) Name() string { return "update_quantity" }
func (ClearCart) Name() string      { return "clear_cart" }
func (LoadCart) Name() string       { return "load_cart" }

// Reduce applies action to state and returns the new state. The input is not modified.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddItem:
		return addItem(state, a)
	case RemoveItem:
		return removeItem(state, a.ProductID, a.Options)
	case UpdateQuantity:
		if a.Quantity <= 0 {
			return removeItem(state, a.ProductID, a.Options)
		}
		items := cloneItems(state.Items)
		for i := range items {
			if items[i].Product.UID != a.ProductID {
				continue
			}
			if a.Options != nil && !sameOptions(items[i].SelectedOptions, a.Options) {
				continue
			}
			items[i].Quantity = a.Quantity
		}
		return withTotals(items)
	case ClearCart:
		return Empty()
	case LoadCart:
		return withTotals(cloneItems(a.State.Items))
	default:
		return withTotals(cloneItems(state.Items))
	}
}

func addItem(state State, a AddItem) State {
	quantity := a.Quantity
	if quantity <= 0 {
		quantity = 1
	}
	items := cloneItems(state.Items)
	for i := range items {
		if items[i].matches(a.Product.UID, a.Options) {
			items[i].Quantity += quantity
			return withTotals(items)
		}
	}
	items = append(items, Item{
		Product:         a.Product,
		Quantity:        quantity,
		SelectedOptions: maps.Clone(a.Options),
	})
	return withTotals(items)
}

func removeItem(state State, productID string, options map[string]string) State {
	items := make([]Item, 0, len(state.Items))
	for _, item := range cloneItems(state.Items) {
		if item.Product.UID == productID && (options == nil || sameOptions(item.SelectedOptions, options)) {
			continue
		}
		items = append(items, item)
	}
	return withTotals(items)
}
