package service

import (
	"context"
	"errors"
	"testing"

	"github.com/foodcircles/storefront/internal/core/domain"
)

// Mock CatalogRepository
type mockCatalogRepo struct {
	restaurants []domain.Restaurant
	err         error
}

func (m *mockCatalogRepo) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	if m.err != nil {
		return nil, m.err
	}
	return m.restaurants, nil
}

func sampleCatalog() *mockCatalogRepo {
	return &mockCatalogRepo{restaurants: []domain.Restaurant{
		{
			ID: "r-1", Name: "Chipotle", Slug: "chipotle",
			Items: []domain.MenuItem{
				{ID: "i-1", RestaurantID: "r-1", Name: "Burger", Slug: "burger", Price: 9.75},
				{ID: "i-2", RestaurantID: "r-1", Name: "Pizza", Slug: "pizza", Price: 12.50},
			},
		},
		{
			ID: "r-2", Name: "Subway", Slug: "subway",
			Items: []domain.MenuItem{
				{ID: "i-3", RestaurantID: "r-2", Name: "Sandwich", Slug: "sandwich", Price: 8.40},
			},
		},
	}}
}

func TestListItems_FlattensAllRestaurants(t *testing.T) {
	svc := NewCatalogService(sampleCatalog())

	items, err := svc.ListItems(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	// Restaurant ordering is preserved in the flat list.
	if items[0].RestaurantID != "r-1" || items[2].RestaurantID != "r-2" {
		t.Errorf("flat list lost restaurant ordering: %+v", items)
	}
}

func TestRestaurantBySlug(t *testing.T) {
	svc := NewCatalogService(sampleCatalog())

	restaurant, err := svc.RestaurantBySlug(context.Background(), "subway")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if restaurant.ID != "r-2" {
		t.Errorf("expected r-2, got %s", restaurant.ID)
	}
}

func TestRestaurantBySlug_NotFound(t *testing.T) {
	svc := NewCatalogService(sampleCatalog())

	_, err := svc.RestaurantBySlug(context.Background(), "no-such-place")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestItemBySlug(t *testing.T) {
	svc := NewCatalogService(sampleCatalog())

	item, err := svc.ItemBySlug(context.Background(), "sandwich")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "i-3" {
		t.Errorf("expected i-3, got %s", item.ID)
	}
}

func TestItemBySlug_NotFound(t *testing.T) {
	svc := NewCatalogService(sampleCatalog())

	_, err := svc.ItemBySlug(context.Background(), "no-such-item")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got: %v", err)
	}
}

func TestListRestaurants_RepositoryFailure(t *testing.T) {
	svc := NewCatalogService(&mockCatalogRepo{err: errors.New("connection refused")})

	if _, err := svc.ListRestaurants(context.Background()); err == nil {
		t.Error("expected error from failing repository")
	}
}
