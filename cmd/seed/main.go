package main

import (
	"context"
	"errors"
	"log"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"gatehouse/internal/config"
	"gatehouse/internal/db"
	"gatehouse/internal/model"
	"gatehouse/internal/repository"
)

const bcryptCost = 12

type seedUser struct {
	email     string
	password  string
	firstName string
	lastName  string
	role      string
	status    string
}

func main() {
	log.Println("Seeding database...")

	_ = godotenv.Load()
	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := gormDB.AutoMigrate(&model.User{}, &model.AuditLog{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users := []seedUser{
		{"admin@example.com", "admin123456", "Admin", "User", model.RoleAdmin, model.StatusApproved},
		{"john@example.com", "password123", "John", "Doe", model.RoleUser, model.StatusPending},
		{"jane@example.com", "password123", "Jane", "Smith", model.RoleUser, model.StatusPending},
	}

	userRepo := repository.NewUserRepository(gormDB)
	ctx := context.Background()

	created := 0
	for _, u := range users {
		existing, err := userRepo.FindByEmail(ctx, u.email)
		if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
			log.Fatalf("Error checking user %s: %v", u.email, err)
		}
		if existing != nil {
			log.Printf("User %s already exists, skipping", u.email)
			continue
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(u.password), bcryptCost)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", u.email, err)
		}

		user := &model.User{
			Email:        u.email,
			PasswordHash: string(hash),
			FirstName:    u.firstName,
			LastName:     u.lastName,
			Role:         u.role,
			Status:       u.status,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create user %s: %v", u.email, err)
		}
		created++
	}

	log.Printf("Seeding completed, %d users created", created)
	log.Println("Admin login: admin@example.com / admin123456")
}
