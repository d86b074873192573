package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/api"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/middleware"
	"github.com/recipebox/backend/internal/router"
	"github.com/recipebox/backend/internal/server"
	"github.com/recipebox/backend/internal/service"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := database.RunMigrations(db, "migrations"); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Token endpoint rate limiting is optional; the server runs without
	// Redis.
	var tokenLimiter *middleware.RateLimiter
	if cfg.RedisURL != "" || cfg.RedisHost != "" {
		redisClient, err := database.NewRedisClient(cfg)
		if err != nil {
			log.Printf("Warning: Failed to connect to Redis for rate limiting: %v", err)
		} else {
			tokenLimiter = middleware.NewTokenRateLimiter(redisClient)
		}
	}

	var images service.ImageStore
	if cfg.S3Bucket != "" {
		s3Config, err := config.NewS3Config(context.Background(), cfg)
		if err != nil {
			log.Fatalf("Failed to configure S3 image storage: %v", err)
		}
		images = service.NewS3ImageStore(s3Config)
	} else {
		images = service.NewLocalImageStore(cfg.MediaDir)
	}

	users := service.NewUserService(db)
	tokens := service.NewTokenService(db, users)
	recipes := service.NewRecipeService(db, images)
	tags := service.NewTagService(db)
	ingredients := service.NewIngredientService(db)

	engine := router.SetupRouter(router.Handlers{
		User:       api.NewUserHandler(users, tokens),
		Recipe:     api.NewRecipeHandler(recipes),
		Tag:        api.NewTagHandler(tags),
		Ingredient: api.NewIngredientHandler(ingredients),
	}, tokens, tokenLimiter)

	srv := server.NewServer(engine)

	errChan := make(chan error, 1)
	go func() {
		log.Printf("Starting server on %s:%s", cfg.ServerHost, cfg.ServerPort)
		errChan <- srv.Start(cfg.ServerHost + ":" + cfg.ServerPort)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	log.Println("Shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
