package cart

import (
	"encoding/json"
	"testing"

	"github.com/demolux/storefront/internal/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func product(uid string, price int64) catalog.Product {
	return catalog.Product{UID: uid, Title: "Product " + uid, Price: decimal.NewFromInt(price)}
}

func assertTotals(t *testing.T, s State, total string, count int) {
	t.Helper()
	assert.True(t, s.Total.Equal(decimal.RequireFromString(total)), "total %s, want %s", s.Total, total)
	assert.Equal(t, count, s.ItemCount)
}

func TestAddItemMergesSameProductAndOptions(t *testing.T) {
	p := product("tote", 500)
	s := Reduce(Empty(), AddItem{Product: p, Quantity: 2})
	s = Reduce(s, AddItem{Product: p, Quantity: 1})

	require.Len(t, s.Items, 1)
	assert.Equal(t, 3, s.Items[0].Quantity)
	assertTotals(t, s, "1500", 3)
}

func TestAddItemTwiceEqualsSummedAdd(t *testing.T) {
	p := product("scarf", 145)
	opts := map[string]string{"color": "oat"}
	twice := Reduce(Reduce(Empty(), AddItem{Product: p, Quantity: 2, Options: opts}), AddItem{Product: p, Quantity: 3, Options: opts})
	once := Reduce(Empty(), AddItem{Product: p, Quantity: 5, Options: opts})
	assert.Equal(t, once.Items, twice.Items)
	assert.True(t, once.Total.Equal(twice.Total))
	assert.Equal(t, once.ItemCount, twice.ItemCount)
}

func TestAddItemDefaultsQuantityAndSplitsOptions(t *testing.T) {
	p := product("coat", 420)
	s := Reduce(Empty(), AddItem{Product: p})
	s = Reduce(s, AddItem{Product: p, Quantity: -4, Options: map[string]string{"size": "M"}})
	s = Reduce(s, AddItem{Product: p, Options: map[string]string{}})

	require.Len(t, s.Items, 2, "nil and empty options share a line")
	assert.Equal(t, 2, s.Items[0].Quantity)
	assert.Equal(t, 1, s.Items[1].Quantity)
	assertTotals(t, s, "1260", 3)
}

func TestRemoveItem(t *testing.T) {
	p := product("coat", 100)
	s := Reduce(Empty(), AddItem{Product: p, Options: map[string]string{"size": "S"}})
	s = Reduce(s, AddItem{Product: p, Options: map[string]string{"size": "M"}})
	s = Reduce(s, AddItem{Product: product("scarf", 10)})

	one := Reduce(s, RemoveItem{ProductID: "coat", Options: map[string]string{"size": "S"}})
	require.Len(t, one.Items, 2)
	assert.Equal(t, "M", one.Items[0].SelectedOptions["size"])
	assertTotals(t, one, "110", 2)

	all := Reduce(s, RemoveItem{ProductID: "coat"})
	require.Len(t, all.Items, 1)
	assert.Equal(t, "scarf", all.Items[0].Product.UID)
	assertTotals(t, all, "10", 1)

	assert.Len(t, s.Items, 3, "reduce must not modify its input")
}

func TestUpdateQuantity(t *testing.T) {
	p := product("tote", 289)
	s := Reduce(Empty(), AddItem{Product: p, Quantity: 1})

	s = Reduce(s, UpdateQuantity{ProductID: "tote", Quantity: 4})
	assertTotals(t, s, "1156", 4)

	zero := Reduce(s, UpdateQuantity{ProductID: "tote", Quantity: 0})
	removed := Reduce(s, RemoveItem{ProductID: "tote"})
	assert.Equal(t, removed, zero)
	assert.True(t, zero.IsEmpty())

	negative := Reduce(s, UpdateQuantity{ProductID: "tote", Quantity: -1})
	assert.True(t, negative.IsEmpty())
}

func TestUpdateQuantityWithOptionsTargetsOneLine(t *testing.T) {
	p := product("loafer", 300)
	s := Reduce(Empty(), AddItem{Product: p, Options: map[string]string{"size": "41"}})
	s = Reduce(s, AddItem{Product: p, Options: map[string]string{"size": "42"}})

	s = Reduce(s, UpdateQuantity{ProductID: "loafer", Options: map[string]string{"size": "42"}, Quantity: 3})
	assert.Equal(t, 1, s.Items[0].Quantity)
	assert.Equal(t, 3, s.Items[1].Quantity)
	assertTotals(t, s, "1200", 4)
}

func TestClearCart(t *testing.T) {
	s := Reduce(Empty(), AddItem{Product: product("a", 1)})
	s = Reduce(s, ClearCart{})
	assert.True(t, s.IsEmpty())
	assertTotals(t, s, "0", 0)
}

func TestLoadCartRecomputesTotals(t *testing.T) {
	loaded := Reduce(Empty(), LoadCart{State: State{
		Items:     []Item{{Product: product("a", 12), Quantity: 2}, {Product: product("b", 5), Quantity: 1}},
		Total:     decimal.NewFromInt(999),
		ItemCount: 42,
	}})
	assertTotals(t, loaded, "29", 3)
}

func TestLoadCartRoundTrip(t *testing.T) {
	p := catalog.Product{UID: "scarf", Title: "Scarf", Price: decimal.RequireFromString("145.50")}
	s := Reduce(Empty(), AddItem{Product: p, Quantity: 2, Options: map[string]string{"color": "oat"}})
	s = Reduce(s, LoadCart{State: s})

	raw, err := json.Marshal(s)
	require.NoError(t, err)
	var decoded State
	require.NoError(t, json.Unmarshal(raw, &decoded))
	again := Reduce(Empty(), LoadCart{State: decoded})

	require.Len(t, again.Items, 1)
	assert.Equal(t, s.Items[0].SelectedOptions, again.Items[0].SelectedOptions)
	assert.Equal(t, s.Items[0].Quantity, again.Items[0].Quantity)
	assert.True(t, s.Items[0].Product.Price.Equal(again.Items[0].Product.Price))
	assertTotals(t, again, "291", 2)
}

func TestActionNames(t *testing.T) {
	cases := []struct {
		action Action
		want   string
	}{
		{AddItem{}, "add_item"},
		{RemoveItem{}, "remove_item"},
		{UpdateQuantity{}, "update_quantity"},
		{ClearCart{}, "clear_cart"},
		{LoadCart{}, "load_cart"},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.action.Name())
	}
}
