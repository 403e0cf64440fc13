package cart

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/port"
)

const storageKeyPrefix = "cart:"

// Store is the single writable source of cart truth for one client session.
// Every mutation persists the full snapshot through the storage port, so any
// number of surfaces reading the same key stay consistent.
type Store struct {
	storage port.CartStorage
	key     string
	items   []domain.CartItem
}

// Open loads the cart persisted under the given key. A missing or unreadable
// snapshot yields an empty cart; only an unreachable storage backend is an
// error.
func Open(ctx context.Context, storage port.CartStorage, key string) (*Store, error) {
	s := &Store{storage: storage, key: storageKeyPrefix + key}

	raw, err := storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("load cart: %w", err)
	}
	if len(raw) == 0 {
		return s, nil
	}

	var items []domain.CartItem
	if err := json.Unmarshal(raw, &items); err != nil {
		// Corrupt snapshot, start over with an empty cart.
		return s, nil
	}

	// Zero-quantity lines never persist; drop any that slipped in.
	for _, item := range items {
		if item.Quantity >= 1 {
			s.items = append(s.items, item)
		}
	}
	return s, nil
}

// AddItem merges the item into the cart by id, appending a new line when the
// id is not present yet. Quantities below one are treated as one.
func (s *Store) AddItem(ctx context.Context, item domain.CartItem, quantity int) error {
	if quantity < 1 {
		quantity = 1
	}
	s.items = MergeItem(s.items, item, quantity)
	return s.persist(ctx)
}

// RemoveItem deletes the line matching id entirely, regardless of quantity.
// Removing an absent id is a no-op.
func (s *Store) RemoveItem(ctx context.Context, id string) error {
	for i := range s.items {
		if s.items[i].ID == id {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return s.persist(ctx)
		}
	}
	return nil
}

// UpdateQuantity sets the quantity of an existing line. A quantity of zero or
// less removes the line; an unknown id is a no-op, never an append.
func (s *Store) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	if quantity <= 0 {
		return s.RemoveItem(ctx, id)
	}
	for i := range s.items {
		if s.items[i].ID == id {
			s.items[i].Quantity = quantity
			return s.persist(ctx)
		}
	}
	return nil
}

// Clear empties the cart unconditionally and drops the persisted snapshot.
func (s *Store) Clear(ctx context.Context) error {
	s.items = nil
	if err := s.storage.Remove(ctx, s.key); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// Items returns a snapshot copy of the cart lines in insertion order.
func (s *Store) Items() []domain.CartItem {
	items := make([]domain.CartItem, len(s.items))
	copy(items, s.items)
	return items
}

// TotalPrice is derived on every read and never stored.
func (s *Store) TotalPrice() float64 {
	return Total(s.items)
}

func (s *Store) persist(ctx context.Context) error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.storage.Set(ctx, s.key, raw); err != nil {
		return fmt.Errorf("persist cart: %w", err)
	}
	return nil
}
