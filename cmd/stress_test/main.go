package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"
	"sync"
	"sync/atomic"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/foodcircles/storefront/internal/adapter/storage"
	"github.com/foodcircles/storefront/internal/config"
	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/core/service"
)

// Hammers the order workflow with concurrent submissions from a single user
// to verify the at-most-one-in-flight submission guard under load.
const (
	totalRequests = 50
	queueSize     = 100
)

func main() {
	ctx := context.Background()
	cfg := config.Load()

	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	defer rdb.Close()

	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	defer db.Close()
	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}

	redisAdapter := storage.NewRedisAdapter(rdb)
	mysqlAdapter := storage.NewMySQLAdapter(db)
	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	orderService := service.NewOrderService(mysqlAdapter, redisAdapter, queueSize)
	defer orderService.Close()

	// Drain the notification queue in background
	go func() {
		for range orderService.Notifications() {
		}
	}()

	userID := "stress-user-" + uuid.NewString()
	items := []domain.CartItem{
		{ID: "stress-item", Name: "Pizza", Slug: "pizza", Price: 12.50, Quantity: 2},
	}

	var successCount atomic.Int32
	var rejectedCount atomic.Int32
	var failCount atomic.Int32

	var wg sync.WaitGroup
	start := time.Now()

	for i := 0; i < totalRequests; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()

			_, err := orderService.PlaceOrder(ctx, service.PlaceOrderRequest{
				UserID:        userID,
				Intent:        service.IntentPlaceOrder,
				Items:         items,
				Amount:        25.00,
				OrderType:     domain.OrderTypePickup,
				PaymentMethod: domain.PaymentMethodCreditCard,
			})
			switch {
			case err == nil:
				successCount.Add(1)
			case errors.Is(err, service.ErrSubmissionInFlight):
				rejectedCount.Add(1)
			default:
				failCount.Add(1)
			}
		}()
	}

	wg.Wait()
	elapsed := time.Since(start)

	success := successCount.Load()
	rejected := rejectedCount.Load()
	fail := failCount.Load()

	fmt.Println("========== STRESS TEST RESULTS ==========")
	fmt.Printf("Total Requests:   %d\n", totalRequests)
	fmt.Printf("Placed:           %d\n", success)
	fmt.Printf("Guard Rejected:   %d\n", rejected)
	fmt.Printf("Failed:           %d\n", fail)
	fmt.Printf("Duration:         %v\n", elapsed)
	fmt.Println("==========================================")

	if fail > 0 {
		fmt.Printf("FAIL: %d submissions errored\n", fail)
		return
	}
	if success+rejected == totalRequests && success >= 1 {
		fmt.Println("PASS: every submission either placed an order or was guarded")
	} else {
		fmt.Printf("FAIL: unexpected split %d placed / %d rejected\n", success, rejected)
	}
}
