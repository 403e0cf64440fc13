package main

import (
	"context"
	"database/sql"
	"log"
	"regexp"
	"strings"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/foodcircles/storefront/internal/adapter/storage"
	"github.com/foodcircles/storefront/internal/config"
	"github.com/foodcircles/storefront/internal/core/domain"
)

// itemStock is the starting stock assigned to every seeded menu item.
const itemStock = 100

type seedItem struct {
	name        string
	description string
	image       string
	price       float64
}

type seedRestaurant struct {
	name  string
	image string
	items []seedItem
}

var restaurantSeedData = []seedRestaurant{
	{
		name:  "Chipotle",
		image: "https://images.unsplash.com/photo-1552566626-52f8b828add9?auto=format&fit=crop&w=800&q=80",
		items: []seedItem{
			{
				name:        "Pizza",
				description: "A savory dish of Italian origin: a round, flattened base of leavened wheat dough topped with tomatoes, cheese and various toppings, baked at high temperature.",
				image:       "https://images.unsplash.com/photo-1585238342024-78d387f4a707?auto=format&fit=crop&w=800&q=80",
				price:       12.50,
			},
			{
				name:        "Burger",
				description: "One or more cooked patties of ground meat placed inside a sliced bread roll or bun, usually with cheese, lettuce and condiments.",
				image:       "https://images.unsplash.com/photo-1572448862527-d3c904757de6?auto=format&fit=crop&w=800&q=80",
				price:       9.75,
			},
		},
	},
	{
		name:  "McDonalds",
		image: "https://images.unsplash.com/photo-1619881590738-a111d176d906?auto=format&fit=crop&w=800&q=80",
		items: []seedItem{
			{
				name:        "Hot Dog",
				description: "A cooked sausage placed inside a partially sliced bun, served with mustard, ketchup and relish.",
				image:       "https://images.unsplash.com/photo-1653964158593-716a5a01de7c?auto=format&fit=crop&w=800&q=80",
				price:       6.25,
			},
		},
	},
	{
		name:  "Pizza Hut",
		image: "https://images.unsplash.com/photo-1513104890138-7c749659a591?auto=format&fit=crop&w=800&q=80",
		items: []seedItem{
			{
				name:        "Salad",
				description: "A dish of mixed ingredients such as greens, eggs, cheese and vegetables, tossed with oil and served cold.",
				image:       "https://images.unsplash.com/photo-1546069901-ba9599a7e63c?auto=format&fit=crop&w=800&q=80",
				price:       7.80,
			},
		},
	},
	{
		name:  "Subway",
		image: "https://images.unsplash.com/photo-1509722747041-616f39b57569?auto=format&fit=crop&w=800&q=80",
		items: []seedItem{
			{
				name:        "Sandwich",
				description: "Sliced vegetables, cheese and meat layered between pieces of freshly baked bread.",
				image:       "https://images.unsplash.com/photo-1528735602780-2552fd46c7af?auto=format&fit=crop&w=800&q=80",
				price:       8.40,
			},
			{
				name:        "Cookie",
				description: "A baked sweet treat with chocolate chips, soft in the middle and crisp around the edges.",
				image:       "https://images.unsplash.com/photo-1499636136210-6f4ee915583e?auto=format&fit=crop&w=800&q=80",
				price:       2.90,
			},
		},
	},
}

func main() {
	ctx := context.Background()
	cfg := config.Load()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	mysqlAdapter := storage.NewMySQLAdapter(db)
	redisAdapter := storage.NewRedisAdapter(rdb)

	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}
	if err := mysqlAdapter.ResetData(ctx); err != nil {
		log.Fatalf("failed to reset data: %v", err)
	}

	now := time.Now().UTC()

	demo := domain.User{
		ID:        uuid.NewString(),
		FirstName: "Demo",
		LastName:  "Customer",
		Email:     "demo@gmail.com",
		Role:      domain.RoleCustomer,
		CreatedAt: now,
	}
	staff := domain.User{
		ID:        uuid.NewString(),
		FirstName: "Staff",
		LastName:  "Member",
		Email:     "staff@gmail.com",
		Role:      domain.RoleStaff,
		CreatedAt: now,
	}
	for _, user := range []domain.User{demo, staff} {
		if err := mysqlAdapter.CreateUser(ctx, user); err != nil {
			log.Fatalf("failed to seed user %s: %v", user.Email, err)
		}
	}

	for _, seed := range restaurantSeedData {
		restaurant := domain.Restaurant{
			ID:        uuid.NewString(),
			Name:      seed.name,
			Slug:      slugify(seed.name),
			Image:     seed.image,
			CreatedAt: now,
			UpdatedAt: now,
		}
		for _, item := range seed.items {
			restaurant.Items = append(restaurant.Items, domain.MenuItem{
				ID:           uuid.NewString(),
				RestaurantID: restaurant.ID,
				Name:         item.name,
				Slug:         slugify(item.name),
				Description:  item.description,
				Image:        item.image,
				Price:        item.price,
				Quantity:     itemStock,
				CreatedAt:    now,
				UpdatedAt:    now,
			})
		}
		if err := mysqlAdapter.CreateRestaurant(ctx, restaurant); err != nil {
			log.Fatalf("failed to seed restaurant %s: %v", seed.name, err)
		}
	}

	// Session tokens for the seeded accounts so the storefront is usable
	// right away.
	demoToken := uuid.NewString()
	staffToken := uuid.NewString()
	sessions := []domain.Session{
		{Token: demoToken, UserID: demo.ID, Role: domain.RoleCustomer},
		{Token: staffToken, UserID: staff.ID, Role: domain.RoleStaff},
	}
	for _, session := range sessions {
		if err := redisAdapter.PutSession(ctx, session); err != nil {
			log.Fatalf("failed to seed session: %v", err)
		}
	}

	log.Println("database has been seeded")
	log.Printf("demo customer session token: %s", demoToken)
	log.Printf("staff session token: %s", staffToken)
}

var nonSlug = regexp.MustCompile(`[^a-z0-9]+`)

func slugify(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = nonSlug.ReplaceAllString(s, "-")
	return strings.Trim(s, "-")
}
