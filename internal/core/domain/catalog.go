package domain

import "time"

type Restaurant struct {
	ID        string
	Name      string
	Slug      string
	Image     string
	Items     []MenuItem
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MenuItem struct {
	ID           string
	RestaurantID string
	Name         string
	Slug         string
	Description  string
	Image        string
	Price        float64
	Quantity     int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
