package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/port"
)

var ErrNotFound = errors.New("not found")

// CatalogService is the read-only storefront view of restaurants and their
// menus. It never mutates catalog data.
type CatalogService struct {
	catalog port.CatalogRepository
}

func NewCatalogService(catalog port.CatalogRepository) *CatalogService {
	return &CatalogService{catalog: catalog}
}

func (s *CatalogService) ListRestaurants(ctx context.Context) ([]domain.Restaurant, error) {
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list restaurants: %w", err)
	}
	return restaurants, nil
}

// ListItems reduces all restaurants into a flat item list, preserving the
// by-name restaurant ordering. It feeds the searchable action list and the
// cart's item metadata lookups.
func (s *CatalogService) ListItems(ctx context.Context) ([]domain.MenuItem, error) {
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("list items: %w", err)
	}

	var items []domain.MenuItem
	for _, restaurant := range restaurants {
		items = append(items, restaurant.Items...)
	}
	return items, nil
}

func (s *CatalogService) RestaurantBySlug(ctx context.Context, slug string) (*domain.Restaurant, error) {
	restaurants, err := s.catalog.ListRestaurants(ctx)
	if err != nil {
		return nil, fmt.Errorf("restaurant by slug: %w", err)
	}
	for i := range restaurants {
		if restaurants[i].Slug == slug {
			return &restaurants[i], nil
		}
	}
	return nil, ErrNotFound
}

func (s *CatalogService) ItemBySlug(ctx context.Context, slug string) (*domain.MenuItem, error) {
	items, err := s.ListItems(ctx)
	if err != nil {
		return nil, err
	}
	for i := range items {
		if items[i].Slug == slug {
			return &items[i], nil
		}
	}
	return nil, ErrNotFound
}
