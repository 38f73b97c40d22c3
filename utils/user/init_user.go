package main

import (
	"log"
	"os"

	"github.com/convocatorias/convocatorias-backend/src/config"
	"github.com/convocatorias/convocatorias-backend/src/db"
	"github.com/convocatorias/convocatorias-backend/src/models"
	"github.com/convocatorias/convocatorias-backend/src/services"
)

func main() {
	cfg := config.Load()

	database, err := db.Connect(cfg)
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}

	// Migrate schema if not exists
	if err := database.AutoMigrate(&models.UserModel{}); err != nil {
		log.Fatalf("failed to migrate user model: %v", err)
	}

	username := os.Getenv("ADMIN_USERNAME")
	password := os.Getenv("ADMIN_PASSWORD")
	if username == "" || password == "" {
		log.Fatal("ADMIN_USERNAME and ADMIN_PASSWORD are required")
	}

	created, err := services.NewUserService(database).EnsureUser(username, password)
	if err != nil {
		log.Fatalf("failed to create user: %v", err)
	}
	if !created {
		log.Printf("User '%s' already exists\n", username)
		return
	}
	log.Printf("User '%s' created\n", username)
}
