// seed inserts the well-known roles and development login accounts.
// Idempotent: existing roles are kept, and user inserts are skipped when the
// dev superadmin (root@example.com) already exists.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"

	"tour-platform/api/internal/config"
	"tour-platform/api/internal/db"
	roledomain "tour-platform/api/internal/role/domain"
	rolerepo "tour-platform/api/internal/role/repository"
	"tour-platform/api/internal/security"
	userdomain "tour-platform/api/internal/user/domain"
	userrepo "tour-platform/api/internal/user/repository"
)

const (
	devPassword   = "password123"
	devAdminEmail = "root@example.com"
	devUserEmail  = "dev@example.com"
)

var seedRoles = []struct {
	name        string
	description string
}{
	{roledomain.RoleSuperadmin, "Full administrative access"},
	{roledomain.RoleAdmin, "Administrative access without role management"},
	{roledomain.RoleManager, "Manages tour content"},
	{roledomain.RoleUser, "Default role for registered users"},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}

	pool, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	roles := rolerepo.NewPostgresRepository(pool)
	users := userrepo.NewPostgresRepository(pool)
	ctx := context.Background()
	now := time.Now().UTC()

	roleIDs := make(map[string]string)
	for _, r := range seedRoles {
		existing, err := roles.GetByName(ctx, r.name)
		if err != nil {
			log.Fatalf("seed role %s: %v", r.name, err)
		}
		if existing != nil {
			roleIDs[r.name] = existing.ID
			continue
		}
		role := &roledomain.Role{
			ID:          uuid.New().String(),
			RoleName:    r.name,
			Description: r.description,
			Status:      roledomain.RoleStatusActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		if err := roles.Create(ctx, role); err != nil {
			log.Fatalf("seed role %s: %v", r.name, err)
		}
		roleIDs[r.name] = role.ID
		log.Printf("seeded role %s", r.name)
	}

	existing, err := users.GetByEmail(ctx, devAdminEmail)
	if err != nil {
		log.Fatalf("seed check: %v", err)
	}
	if existing != nil {
		log.Println("Seed already applied (root@example.com exists). Skipping users.")
		os.Exit(0)
	}

	hasher := security.NewHasher(cfg.BcryptCost)
	passwordHash, err := hasher.Hash([]byte(devPassword))
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	devUsers := []*userdomain.User{
		{
			ID:        uuid.New().String(),
			FirstName: "Root",
			Username:  "root",
			Email:     devAdminEmail,
			RoleID:    roleIDs[roledomain.RoleSuperadmin],
		},
		{
			ID:        uuid.New().String(),
			FirstName: "Dev",
			Username:  "dev",
			Email:     devUserEmail,
			RoleID:    roleIDs[roledomain.RoleUser],
		},
	}
	for _, u := range devUsers {
		u.PasswordHash = passwordHash
		u.Status = userdomain.UserStatusActive
		u.CreatedAt = now
		u.UpdatedAt = now
		if err := users.Create(ctx, u); err != nil {
			log.Fatalf("create %s: %v", u.Email, err)
		}
	}

	log.Println("Seed completed successfully.")
	fmt.Printf("Superadmin login: %s / %s\n", devAdminEmail, devPassword)
	fmt.Printf("Dev login: %s / %s\n", devUserEmail, devPassword)
}
