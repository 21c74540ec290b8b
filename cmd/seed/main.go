package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/go-ddd-social-accounts/config"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/entity"
	"github.com/oksasatya/go-ddd-social-accounts/internal/domain/repository"
	pginfra "github.com/oksasatya/go-ddd-social-accounts/internal/infrastructure/postgres"
	"github.com/oksasatya/go-ddd-social-accounts/pkg/helpers"
)

// seeds two demo accounts where alice follows bob
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)
	ctx := context.Background()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), 2, 1, cfg.DBMaxConnLife)
	if err != nil {
		log.Fatalf("failed to connect to postgres: %v", err)
	}
	defer pool.Close()
	if err := pginfra.Migrate(cfg.PostgresDSN(), cfg.MigrationsDir, logger); err != nil {
		log.Fatalf("migration failed: %v", err)
	}
	db := pginfra.OpenDB(pool)
	defer func() { _ = db.Close() }()
	repo := pginfra.NewUserRepository(db)

	const password = "password123"
	alice := ensureUser(ctx, repo, "alice", "alice@example.com", password, "I write about Go.")
	bob := ensureUser(ctx, repo, "bob", "bob@example.com", password, "")

	if err := alice.Follow(ctx, repo, bob.ID); err != nil {
		log.Fatalf("failed to follow: %v", err)
	}
	fmt.Printf("seeded %s and %s (password=%s); %s follows %s\n", alice.Username, bob.Username, password, alice.Username, bob.Username)
}

func ensureUser(ctx context.Context, repo repository.UserRepository, username, email, password, bio string) *entity.User {
	existing, err := repo.FindByUsername(ctx, username)
	if err == nil {
		return existing
	}
	if !errors.Is(err, repository.ErrNotFound) {
		log.Fatalf("lookup %s: %v", username, err)
	}
	u := entity.NewUser(username, email)
	u.Bio = bio
	u.SetPassword(password)
	if err := repo.Create(ctx, u); err != nil {
		log.Fatalf("create %s: %v", username, err)
	}
	return u
}
