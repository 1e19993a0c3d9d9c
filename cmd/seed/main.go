package main

import (
	"log"
	"os"
	"strconv"

	"github.com/docuscan/docuscan/internal/config"
	"github.com/docuscan/docuscan/internal/database"
	"github.com/docuscan/docuscan/internal/models"
	"github.com/docuscan/docuscan/internal/utils"
	"github.com/google/uuid"
)

func main() {
	cfg := config.Load()
	database.Connect(cfg)
	database.Migrate()

	adminUsername := os.Getenv("ADMIN_USERNAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")

	if adminUsername == "" || adminPassword == "" {
		log.Fatal("Missing environment variables: ADMIN_USERNAME, ADMIN_PASSWORD")
	}

	adminCredits := 9999
	if v := os.Getenv("ADMIN_CREDITS"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil {
			log.Fatal("Invalid ADMIN_CREDITS value:", v)
		}
		adminCredits = parsed
	}

	// Check if an admin with this username already exists
	var admin models.User
	result := database.DB.Where("username = ?", adminUsername).First(&admin)

	if result.Error == nil {
		log.Println("Admin user already exists:", admin.Username)
		return
	}

	passwordHash, err := utils.HashPassword(adminPassword)
	if err != nil {
		log.Fatal("Failed to hash password:", err)
	}

	admin = models.User{
		ID:           uuid.New(),
		Username:     adminUsername,
		PasswordHash: passwordHash,
		Role:         models.RoleAdmin,
		Credits:      adminCredits,
		LastReset:    models.Today(),
	}

	if err := database.DB.Create(&admin).Error; err != nil {
		log.Fatal("Failed to create admin:", err)
	}

	log.Println("Admin user created successfully!")
	log.Println("   Username:", admin.Username)
	log.Println("   Credits:", admin.Credits)
}
