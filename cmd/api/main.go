package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"openhms/api/internal/config"
	"openhms/api/internal/model"
	"openhms/api/internal/server"
)

// @title OpenHMS API
// @version 1.0
// @description OpenHMS - Open Hoarding Management System API

// @contact.name API Support
// @contact.url https://github.com/openhms/openhms/issues
// @contact.email support@openhms.local

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host localhost:8004
// @BasePath /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	log.Println("[API] Starting OpenHMS API Server...")

	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := gorm.Open(postgres.Open(cfg.DatabaseURL), &gorm.Config{})
	if err != nil {
		log.Fatalf("[API] Failed to connect to database: %v", err)
	}
	log.Println("[API] Connected to database")

	// Auto migrate
	if err := autoMigrate(db); err != nil {
		log.Fatalf("[API] Failed to migrate database: %v", err)
	}
	log.Println("[API] Database migrated")

	// Connect to Redis
	redisClient := redis.NewClient(&redis.Options{
		Addr: cfg.RedisURL,
		DB:   0,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("[API] Failed to connect to Redis: %v", err)
	}
	log.Println("[API] Connected to Redis")
	defer redisClient.Close()

	// Connect to NATS
	natsConn, err := nats.Connect(cfg.NATSURL)
	if err != nil {
		log.Fatalf("[API] Failed to connect to NATS: %v", err)
	}
	log.Println("[API] Connected to NATS")
	defer natsConn.Close()

	// Create and setup server
	srv := server.NewServer(cfg, db, redisClient, natsConn)
	srv.Setup()

	// Start the expiry sweeper
	if err := srv.StartBackground(); err != nil {
		log.Fatalf("[API] Failed to start expiry sweeper: %v", err)
	}
	log.Println("[API] Expiry sweeper started")

	// Start HTTP server
	addr := fmt.Sprintf(":%d", cfg.APIPort)
	go func() {
		if err := srv.Run(addr); err != nil {
			log.Fatalf("[API] Failed to start server: %v", err)
		}
	}()

	log.Printf("[API] Server ready on %s", addr)

	// Wait for interrupt signal
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	<-sigChan
	log.Println("[API] Shutting down...")

	// Graceful shutdown
	srv.Shutdown()
	log.Println("[API] Server stopped")
}

func autoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Hoarding{},
		&model.Booking{},
		&model.Complaint{},
		&model.Collection{},
		&model.RewardTransaction{},
		&model.UserReward{},
	)
}
