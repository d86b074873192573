package main

import (
	"errors"
	"log"
	"os"

	"github.com/recipebox/backend/config"
	"github.com/recipebox/backend/internal/database"
	"github.com/recipebox/backend/internal/service"
)

// Creates a superuser from SUPERUSER_EMAIL / SUPERUSER_PASSWORD. Safe to
// re-run: an existing account is left untouched.
func main() {
	email := os.Getenv("SUPERUSER_EMAIL")
	password := os.Getenv("SUPERUSER_PASSWORD")
	if email == "" || password == "" {
		log.Fatal("SUPERUSER_EMAIL and SUPERUSER_PASSWORD must be set")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	users := service.NewUserService(db)
	user, err := users.CreateSuperuser(email, password)
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			log.Printf("Superuser %s already exists", email)
			return
		}
		log.Fatalf("Failed to create superuser: %v", err)
	}

	log.Printf("Created superuser %s (id %d)", user.Email, user.ID)
}
