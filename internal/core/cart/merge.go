package cart

import "github.com/foodcircles/storefront/internal/core/domain"

// MergeItem returns items with newItem merged in: an existing line with the
// same id has its quantity incremented by quantity, otherwise a new line is
// appended at the end. The input slice is left unmodified.
func MergeItem(items []domain.CartItem, newItem domain.CartItem, quantity int) []domain.CartItem {
	merged := make([]domain.CartItem, len(items), len(items)+1)
	copy(merged, items)

	for i := range merged {
		if merged[i].ID == newItem.ID {
			merged[i].Quantity += quantity
			return merged
		}
	}

	newItem.Quantity = quantity
	return append(merged, newItem)
}

// Total computes the cart total as the sum of price times quantity over all
// lines. It is recomputed on every call, never cached.
func Total(items []domain.CartItem) float64 {
	var total float64
	for _, item := range items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
