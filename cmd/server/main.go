// Server runs the social identity linking HTTP service: OAuth redirect and
// callback flows, link confirmation, and provider listing.
package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"social-link-service/internal/config"
	"social-link-service/internal/db"
	identityrepo "social-link-service/internal/identity/repository"
	linkinghandler "social-link-service/internal/linking/handler"
	"social-link-service/internal/linking/service"
	"social-link-service/internal/notification"
	"social-link-service/internal/provider"
	"social-link-service/internal/provider/github"
	"social-link-service/internal/provider/google"
	"social-link-service/internal/security"
	"social-link-service/internal/server"
	"social-link-service/internal/session"
	"social-link-service/internal/telemetry/otel"
	"social-link-service/internal/user/directory"
	userrepo "social-link-service/internal/user/repository"
)

const serviceName = "social-link-service"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	ctx := context.Background()

	providers, err := otel.NewProviders(ctx, cfg.OTLPEndpoint, serviceName, cfg.OTLPInsecure)
	if err != nil {
		log.Fatalf("telemetry: %v", err)
	}
	providers.SetGlobal()
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = providers.Shutdown(shutdownCtx)
	}()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer conn.Close()

	signer, err := security.ParsePrivateKey(cfg.SessionPrivateKey)
	if err != nil {
		log.Fatalf("SESSION_PRIVATE_KEY: %v", err)
	}
	pub, err := security.ParsePublicKey(cfg.SessionPublicKey)
	if err != nil {
		log.Fatalf("SESSION_PUBLIC_KEY: %v", err)
	}
	tokens := security.NewSessionTokenProvider(signer, pub, cfg.SessionIssuer, cfg.SessionTTLDuration())
	guard := session.NewGuard(tokens, strings.HasPrefix(cfg.BaseURL, "https://"))

	var sealer identityrepo.Sealer
	if key := cfg.SealKey(); key != nil {
		sealer = security.NewSecretBoxSealer(key)
	} else {
		log.Println("TOKEN_SEAL_KEY is not set; provider tokens will be stored unencrypted")
	}
	identities := identityrepo.NewPostgresRepository(conn, sealer)
	users := directory.New(userrepo.NewPostgresRepository(conn), cfg.CanCreateUsers)

	var drivers []provider.Driver
	if cfg.GoogleClientID != "" {
		g, err := google.New(ctx, cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.BaseURL+"/auth/google/callback")
		if err != nil {
			log.Fatalf("google driver: %v", err)
		}
		drivers = append(drivers, g)
	}
	if cfg.GitHubClientID != "" {
		gh, err := github.New(cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.BaseURL+"/auth/github/callback")
		if err != nil {
			log.Fatalf("github driver: %v", err)
		}
		drivers = append(drivers, gh)
	}
	if len(drivers) == 0 {
		log.Fatal("no providers configured; set GOOGLE_CLIENT_ID or GITHUB_CLIENT_ID")
	}
	registry := provider.NewRegistry(drivers...)

	notifier, err := notification.NewKafkaNotifier(cfg.NotifyKafkaBrokersList(), cfg.NotifyKafkaTopic, cfg.BaseURL)
	if err != nil {
		log.Fatalf("notifier: %v", err)
	}
	defer notifier.Close()
	if notifier == nil {
		log.Println("KAFKA_BROKERS is not set; confirmation notifications are disabled")
	}

	linking := service.NewLinkingService(identities, users, registry, notifier, service.Options{
		CanAssociateToLoggedInUser: cfg.CanAssociateToLoggedInUser,
		ConfirmIdentityForNewUser:  cfg.ConfirmIdentityForNewUser,
		LoginAfterConfirm:          cfg.LoginAfterConfirm,
	})

	router := server.NewRouter(guard, linkinghandler.NewHandler(linking, registry, guard))
	srv := server.NewHTTPServer(cfg.HTTPAddr, router, serviceName)

	go func() {
		log.Printf("HTTP server listening on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("serve: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("shutting down HTTP server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
