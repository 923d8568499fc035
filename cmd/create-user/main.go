package main

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/jafarshop/storefront/internal/config"
	"github.com/jafarshop/storefront/internal/domain"
	"github.com/jafarshop/storefront/internal/repository/postgres"
)

func main() {
	if len(os.Args) < 3 {
		fmt.Println("Usage: go run cmd/create-user/main.go <email> <session-token>")
		fmt.Println("Example: go run cmd/create-user/main.go \"asha@example.com\" \"asha-session-12345\"")
		os.Exit(1)
	}

	email := os.Args[1]
	token := os.Args[2]

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	// Connect to database
	db, err := postgres.NewConnection(cfg.Database)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// Make sure the users table is current
	if err := postgres.RunMigrations(db); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to run migrations: %v\n", err)
		os.Exit(1)
	}

	// Hash the session token
	tokenHash, err := postgres.HashSessionToken(token)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash session token: %v\n", err)
		os.Exit(1)
	}

	// Create repositories
	repos := postgres.NewRepositories(db, logger)

	// Create user
	user := &domain.User{
		Email:              email,
		SessionTokenHash:   tokenHash,
		SessionTokenLookup: postgres.SessionTokenLookup(token),
		IsActive:           true,
	}
	if err := repos.User.Create(context.Background(), user); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create user: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("User created.\n\n")
	fmt.Printf("User ID: %s\n", user.ID.String())
	fmt.Printf("Email: %s\n", user.Email)
	fmt.Printf("\nSave the session token now; only its hash is stored.\n")
	fmt.Printf("Authorization: Bearer %s\n", token)
}
