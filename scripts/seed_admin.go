package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"

	"github.com/kyangwi/portfolio/adapters/persistence"
	"github.com/kyangwi/portfolio/pkg/auth"
)

func main() {
	fmt.Println("adding admin into database...")

	if err := godotenv.Load(); err != nil {
		log.Println("warning: .env file not found, use system environment variables.")
	}

	dsn := os.Getenv("DB_DSN")
	adminEmail := os.Getenv("ADMIN_EMAIL")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		log.Fatal("ADMIN_EMAIL and ADMIN_PASSWORD are required")
	}

	hash, err := auth.HashPassword(adminPassword)
	if err != nil {
		log.Fatalf("cannot hash password: %v", err)
	}

	pool, err := pgxpool.New(context.Background(), dsn)
	if err != nil {
		log.Fatalf("cannot connect DB: %v", err)
	}
	defer pool.Close()

	ctx := context.Background()
	store := persistence.NewPostgresDocStore(pool)

	existing, err := store.Query(ctx, "users", "email", adminEmail)
	if err != nil {
		log.Fatalf("cannot look up user: %v", err)
	}

	data := map[string]any{
		"email":         adminEmail,
		"password_hash": hash,
	}
	if len(existing) > 0 {
		if err := store.Update(ctx, "users", existing[0].ID, data); err != nil {
			log.Fatalf("cannot update user: %v", err)
		}
	} else {
		if _, err := store.Add(ctx, "users", data); err != nil {
			log.Fatalf("cannot add user: %v", err)
		}
	}

	fmt.Printf("added or updated admin '%s' successfully!\n", adminEmail)
}
