package main

import (
	"atm_system/internal/api"    // Custom package for API handlers
	"atm_system/internal/config" // Custom package for configuration
	"atm_system/internal/db"     // Custom package for SQL bootstrap
	"atm_system/internal/i18n"   // Custom package for localized messages
	"atm_system/internal/ledger" // Custom package for the account ledger
	"atm_system/internal/store"  // Custom package for record stores
	"context"                    // context package is needed for Redis operations

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logrus for structured logging
)

// Main function to set up and run the terminal server
func main() {
	cfg := config.LoadConfig() // Load configuration

	// Setup logger
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	if level, err := logrus.ParseLevel(cfg.LogLevel); err == nil {
		logrus.SetLevel(level)
	}
	if cfg.JWTSecret == "" {
		logrus.Fatal("JWT_SECRET must be set")
	}

	// Open the record store and load the ledger; a corrupt store aborts startup
	recordStore, err := openStore(cfg)
	if err != nil {
		logrus.Fatalf("failed to open record store: %v", err)
	}
	l, err := ledger.New(recordStore)
	if err != nil {
		logrus.Fatalf("failed to load ledger: %v", err)
	}

	// Setup Redis client when configured
	var redisClient *redis.Client
	if cfg.RedisAddr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr, // Redis server address
			Password: cfg.RedisPass, // Redis password
			DB:       cfg.RedisDB,   // Redis database number
		})
		// Test Redis connection
		if _, err := redisClient.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
	}

	// Set Mode to Release if in production
	if cfg.IsProd {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup Gin
	r := gin.Default() // Gin router instance

	// Set trusted proxies for Gin
	if err := r.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logrus.Fatalf("failed to set trusted proxies: %v", err)
	}

	terminal := api.NewTerminal(l, i18n.New(cfg.Language), redisClient, cfg.JWTSecret)
	api.RegisterRoutes(r, terminal) // Terminal endpoints

	logrus.WithFields(logrus.Fields{
		"port":     cfg.AppPort,     // Listening port
		"store":    cfg.StoreDriver, // Record store driver
		"language": cfg.Language,    // Terminal language
		"cache":    redisClient != nil,
	}).Info("ATM server running") // Log server start
	if err := r.Run(":" + cfg.AppPort); err != nil { // Start the server on port cfg.AppPort
		logrus.Fatalf("server stopped: %v", err)
	}
}

// openStore returns the ledger backend selected by cfg.StoreDriver
func openStore(cfg *config.Config) (ledger.Store, error) {
	if cfg.StoreDriver == config.DriverFile {
		return store.NewFileStore(cfg.DataFile), nil // Line-oriented text file
	}
	gdb, err := db.Open(cfg)
	if err != nil {
		return nil, err
	}
	if err := db.Migrate(gdb); err != nil {
		return nil, err
	}
	return store.NewGormStore(gdb), nil
}
