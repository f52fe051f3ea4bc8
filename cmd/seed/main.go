// seed inserts development fixtures: a dev user with one confirmed social
// identity. Safe to run repeatedly.
package main

import (
	"context"
	"database/sql"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"

	"social-link-service/internal/config"
	"social-link-service/internal/db"
	"social-link-service/internal/db/sqlc/gen"
)

const (
	devEmail     = "dev@example.com"
	devName      = "Dev User"
	devProvider  = "google"
	devReference = "dev-google-subject"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	if cfg.Env == "production" {
		log.Fatal("seed: refusing to run with APP_ENV=production")
	}

	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	queries := gen.New(conn)

	existing, err := queries.GetUserByEmail(ctx, devEmail)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		log.Fatalf("seed: lookup user: %v", err)
	}
	if err == nil {
		log.Printf("seed: user %s already exists (id %s), nothing to do", devEmail, existing.ID)
		return
	}

	now := time.Now().UTC()
	user, err := queries.CreateUser(ctx, gen.CreateUserParams{
		ID:        uuid.NewString(),
		Email:     devEmail,
		Name:      devName,
		CreatedAt: now,
		UpdatedAt: now,
	})
	if err != nil {
		log.Fatalf("seed: create user: %v", err)
	}
	log.Printf("seed: created user %s (%s)", user.Email, user.ID)

	identity, err := queries.CreateSocialIdentity(ctx, gen.CreateSocialIdentityParams{
		ID:           uuid.NewString(),
		UserID:       sql.NullString{String: user.ID, Valid: true},
		Provider:     devProvider,
		Reference:    devReference,
		AccessToken:  sql.NullString{String: "dev-access-token", Valid: true},
		ExpiresAt:    sql.NullTime{Time: now.Add(time.Hour), Valid: true},
		RefreshToken: sql.NullString{String: "dev-refresh-token", Valid: true},
		ConfirmToken: "",
		ConfirmedAt:  sql.NullTime{Time: now, Valid: true},
		CreatedAt:    now,
		UpdatedAt:    now,
	})
	if err != nil {
		log.Fatalf("seed: create social identity: %v", err)
	}
	log.Printf("seed: created confirmed %s identity %s for user %s", identity.Provider, identity.ID, user.ID)
}
