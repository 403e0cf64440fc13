package cart

import (
	"testing"

	"github.com/foodcircles/storefront/internal/core/domain"
)

func TestMergeItem_AppendsNewLine(t *testing.T) {
	items := []domain.CartItem{
		{ID: "item-1", Name: "Pizza", Price: 10, Quantity: 1},
	}

	merged := MergeItem(items, domain.CartItem{ID: "item-2", Name: "Burger", Price: 5}, 1)

	if len(merged) != 2 {
		t.Fatalf("expected 2 lines, got %d", len(merged))
	}
	if merged[1].ID != "item-2" || merged[1].Quantity != 1 {
		t.Errorf("unexpected appended line: %+v", merged[1])
	}
}

func TestMergeItem_IncrementsExistingLine(t *testing.T) {
	items := []domain.CartItem{
		{ID: "item-1", Name: "Pizza", Price: 10, Quantity: 1},
	}

	merged := MergeItem(items, domain.CartItem{ID: "item-1", Name: "Pizza", Price: 10}, 1)

	if len(merged) != 1 {
		t.Fatalf("expected a single line, got %d", len(merged))
	}
	if merged[0].Quantity != 2 {
		t.Errorf("expected quantity 2, got %d", merged[0].Quantity)
	}
}

func TestMergeItem_DoesNotModifyInput(t *testing.T) {
	items := []domain.CartItem{
		{ID: "item-1", Name: "Pizza", Price: 10, Quantity: 1},
	}

	MergeItem(items, domain.CartItem{ID: "item-1"}, 3)

	if items[0].Quantity != 1 {
		t.Errorf("input slice was modified, quantity is %d", items[0].Quantity)
	}
}

func TestTotal(t *testing.T) {
	items := []domain.CartItem{
		{ID: "a", Price: 10, Quantity: 2},
		{ID: "b", Price: 5, Quantity: 1},
	}

	if got := Total(items); got != 25 {
		t.Errorf("expected total 25, got %v", got)
	}
}

func TestTotal_Empty(t *testing.T) {
	if got := Total(nil); got != 0 {
		t.Errorf("expected total 0, got %v", got)
	}
}

// Any sequence of merges must keep the total equal to a naive recomputation
// from scratch.
func TestTotal_MatchesNaiveRecomputation(t *testing.T) {
	var items []domain.CartItem
	adds := []struct {
		item domain.CartItem
		qty  int
	}{
		{domain.CartItem{ID: "a", Price: 2.5}, 1},
		{domain.CartItem{ID: "b", Price: 10}, 3},
		{domain.CartItem{ID: "a", Price: 2.5}, 2},
		{domain.CartItem{ID: "c", Price: 0.99}, 5},
		{domain.CartItem{ID: "b", Price: 10}, 1},
	}

	for _, add := range adds {
		items = MergeItem(items, add.item, add.qty)
	}

	var naive float64
	for _, item := range items {
		naive += item.Price * float64(item.Quantity)
	}
	if got := Total(items); got != naive {
		t.Errorf("derived total %v does not match naive recomputation %v", got, naive)
	}
}
