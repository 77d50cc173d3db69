package main

import (
	"context"
	"log"

	"gorm.io/gorm"

	"portfolio/internal/auth"
	"portfolio/internal/config"
	"portfolio/internal/db"
	"portfolio/internal/model"
	"portfolio/internal/repository"
	"portfolio/internal/service"
)

// Seeds the bootstrap admin account and a sample published article so a fresh
// deployment has something to show and someone who can log in.
func main() {
	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}, &model.Article{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	ctx := context.Background()
	userRepo := repository.NewUserRepository(gormDB)
	articleRepo := repository.NewArticleRepository(gormDB)

	admin, err := userRepo.FindByEmail(ctx, cfg.AdminEmail)
	switch {
	case err == nil:
		log.Printf("Admin user %s already exists", cfg.AdminEmail)
	case err == gorm.ErrRecordNotFound:
		hash, err := auth.HashPassword(cfg.AdminPassword)
		if err != nil {
			log.Fatalf("Failed to hash admin password: %v", err)
		}
		admin = &model.User{
			FullName:     "Admin User",
			Email:        cfg.AdminEmail,
			PasswordHash: hash,
			Role:         model.RoleAdmin,
			IsActive:     true,
		}
		if err := userRepo.Create(ctx, admin); err != nil {
			log.Fatalf("Failed to create admin user: %v", err)
		}
		log.Printf("Created admin user %s", cfg.AdminEmail)
	default:
		log.Fatalf("Failed to look up admin user: %v", err)
	}

	// Cache client deliberately nil: the service treats it as a cache miss.
	articles := service.NewArticleService(articleRepo, nil)
	sample := service.CreateArticleInput{
		Title: "My Journey as a Developer",
		Name:  "journey-as-developer",
		Content: []string{
			"I started programming when I was 15...",
			"My first language was Python...",
		},
		Category: string(model.CategoryProjects),
		Status:   string(model.StatusPublished),
		Tags:     []string{"programming", "career"},
	}
	if _, err := articles.Create(ctx, sample, admin); err != nil {
		log.Printf("Skipping sample article: %v", err)
	} else {
		log.Printf("Created sample article %q", sample.Name)
	}

	log.Println("Seed complete")
}
