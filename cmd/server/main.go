package main // Entry point package

import (
	"context"
	"log" // Logging library

	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/user-auth-service/internal/auth"
	"github.com/iliyamo/user-auth-service/internal/config"
	"github.com/iliyamo/user-auth-service/internal/database"
	"github.com/iliyamo/user-auth-service/internal/handler"
	"github.com/iliyamo/user-auth-service/internal/queue"
	"github.com/iliyamo/user-auth-service/internal/repository"
	"github.com/iliyamo/user-auth-service/internal/router"
	"github.com/iliyamo/user-auth-service/internal/service"
	"github.com/iliyamo/user-auth-service/internal/storage"
)

func main() {
	cfg := config.Load() // Load .env + environment config

	// Open MySQL and bring the schema up to date.
	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database open: %v", err)
	}
	if err := database.Migrate(context.Background(), db); err != nil {
		log.Fatalf("database migrate: %v", err)
	}

	// Redis serializes per-user session transitions across instances.  A nil
	// client degrades to in-process locking.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable; session locking is process-local")
	}

	users := repository.NewUserRepo(db)
	hasher := auth.NewHasher(cfg.PasswordCost, cfg.RefreshHashCost)
	signer := auth.NewTokenSigner(cfg.AccessSecret, cfg.RefreshSecret, cfg.AccessTTLSec, cfg.RefreshTTLSec)
	locks := service.NewSessionLocker(rdb)

	verifier := service.NewCredentialVerifier(users, hasher)
	sessions := service.NewSessionService(users, signer, hasher, locks)

	// Object storage for profile photos is optional; without a bucket the
	// PATCH /users endpoint rejects photo parts.
	var blobs storage.BlobStore
	if cfg.S3Bucket != "" {
		s3store, err := storage.NewS3Store(context.Background(), storage.S3Options{
			Region:    cfg.S3Region,
			Endpoint:  cfg.S3Endpoint,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("object storage init: %v", err)
		}
		blobs = s3store
	}

	// Background consumer appending account events to logs/accounts.log.
	go func() {
		if err := queue.StartAccountConsumer(); err != nil {
			log.Printf("account consumer stopped: %v", err)
		}
	}()

	e := echo.New() // Create Echo instance
	router.RegisterRoutes(e)
	router.RegisterAuth(e, handler.NewAuthHandler(verifier, sessions), signer)
	router.RegisterUsers(e, handler.NewUserHandler(users, blobs), signer)

	addr := ":" + cfg.Port                                // Address string with port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env) // Print startup info

	if err := e.Start(addr); err != nil { // Start HTTP server
		log.Fatal(err) // Log and exit if server fails
	}
}
