package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"

	"github.com/foodcircles/storefront/internal/adapter/handler"
	"github.com/foodcircles/storefront/internal/adapter/messaging"
	"github.com/foodcircles/storefront/internal/adapter/storage"
	"github.com/foodcircles/storefront/internal/config"
	"github.com/foodcircles/storefront/internal/core/domain"
	"github.com/foodcircles/storefront/internal/core/service"
	"github.com/foodcircles/storefront/internal/port"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	// Initialize MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("failed to connect mysql: %v", err)
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)

	if err := db.PingContext(ctx); err != nil {
		log.Fatalf("failed to ping mysql: %v", err)
	}
	log.Println("connected to mysql")

	// Initialize Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Fatalf("failed to connect redis: %v", err)
	}
	log.Println("connected to redis")

	// Initialize RabbitMQ publisher
	publisher, err := messaging.NewPublisher(cfg.RabbitMQURL)
	if err != nil {
		log.Fatalf("failed to connect rabbitmq: %v", err)
	}
	log.Println("connected to rabbitmq")

	// Initialize adapters
	redisAdapter := storage.NewRedisAdapter(rdb)
	mysqlAdapter := storage.NewMySQLAdapter(db)

	if err := mysqlAdapter.EnsureSchema(ctx); err != nil {
		log.Fatalf("failed to ensure schema: %v", err)
	}

	// Initialize services
	orderService := service.NewOrderService(mysqlAdapter, redisAdapter, cfg.QueueSize)
	catalogService := service.NewCatalogService(mysqlAdapter)

	// Start notification workers
	var wg sync.WaitGroup
	for i := 0; i < cfg.WorkerCount; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			workerLoop(id, orderService.Notifications(), publisher)
		}(i)
	}
	log.Printf("started %d notification workers", cfg.WorkerCount)

	// Initialize HTTP server
	httpHandler := handler.NewHTTPHandler(catalogService, orderService, redisAdapter, redisAdapter)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: httpHandler.Routes(),
	}

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			log.Printf("HTTP server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	log.Println("HTTP server stopped")

	// Close the notification queue and wait for workers to drain it
	orderService.Close()
	wg.Wait()
	log.Println("workers stopped")

	publisher.Close()
	rdb.Close()
	db.Close()
	log.Println("connections closed")
}

func workerLoop(id int, queue <-chan domain.OrderNotification, notifier port.OrderNotifier) {
	for notification := range queue {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)

		// A lost notification never fails the order; the restaurant side
		// reconciles from the orders table.
		if err := notifier.PublishOrderPlaced(ctx, notification); err != nil {
			log.Printf("worker %d: failed to publish notification for order %s: %v", id, notification.OrderID, err)
		} else {
			log.Printf("worker %d: published notification for order %s", id, notification.OrderID)
		}

		cancel()
	}
}
