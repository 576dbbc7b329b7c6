package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"tour-platform/api/internal/audit"
	auditrepo "tour-platform/api/internal/audit/repository"
	"tour-platform/api/internal/auth/store"
	"tour-platform/api/internal/config"
	"tour-platform/api/internal/db"
	"tour-platform/api/internal/policy/engine"
	"tour-platform/api/internal/security"
	"tour-platform/api/internal/server"
	"tour-platform/api/internal/server/middleware"

	authservice "tour-platform/api/internal/auth/service"
	rolerepo "tour-platform/api/internal/role/repository"
	roleservice "tour-platform/api/internal/role/service"
	sessionrepo "tour-platform/api/internal/session/repository"
	tourrepo "tour-platform/api/internal/tour/repository"
	tourservice "tour-platform/api/internal/tour/service"
	userrepo "tour-platform/api/internal/user/repository"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET is not set; create a .env from .env.example or set JWT_SECRET")
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	users := userrepo.NewPostgresRepository(pool)
	roles := rolerepo.NewPostgresRepository(pool)
	sessions := sessionrepo.NewPostgresRepository(pool)
	tours := tourrepo.NewPostgresRepository(pool)
	audits := auditrepo.NewPostgresRepository(pool)

	hasher := security.NewHasher(cfg.BcryptCost)
	codec := security.NewTokenCodec([]byte(cfg.JWTSecret), cfg.JWTIssuer, cfg.JWTAudience)
	auditLogger := audit.NewLogger(audits, middleware.ClientIPFromContext)

	authSvc := authservice.NewAuthService(
		users, roles, sessions,
		store.NewSQLTxRunner(pool, users, sessions),
		hasher, codec, cfg.SessionTTL(), cfg.DefaultRole, auditLogger)

	router := server.New(server.Deps{
		Auth:        authSvc,
		Roles:       roleservice.NewRoleService(roles),
		Tours:       tourservice.NewTourService(tours),
		Sessions:    sessions,
		Users:       users,
		Codec:       codec,
		Policy:      engine.NewOPAEvaluator(),
		DB:          pool,
		Audit:       audits,
		CORSOrigins: cfg.CORSOrigins(),
	})

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

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
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown: %v", err)
	}
	log.Println("HTTP server stopped")
}
