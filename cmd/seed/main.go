// seed inserts the initial admin user and a minimal catalog so a fresh
// deployment is usable immediately.
//
// Usage: go run ./cmd/seed
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/retailcore/pos-api/internal/infrastructure/postgres"
	"github.com/retailcore/pos-api/pkg/config"
)

const (
	adminEmail    = "admin@localhost"
	adminPassword = "ChangeMe123!"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fail("load configuration: %v", err)
	}

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fail("connect to PostgreSQL: %v", err)
	}
	defer pool.Close()

	var exists bool
	err = pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE email = $1)`, adminEmail).Scan(&exists)
	if err != nil {
		fail("check admin user: %v", err)
	}
	if exists {
		fmt.Println("admin user already present, nothing to do")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		fail("hash password: %v", err)
	}

	now := time.Now()
	_, err = pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, 'admin', 'active', $5, $5)`,
		uuid.New().String(), "Administrator", adminEmail, string(hash), now)
	if err != nil {
		fail("insert admin user: %v", err)
	}

	_, err = pool.Exec(ctx, `
		INSERT INTO expense_categories (id, name, created_at, updated_at)
		VALUES ($1, 'General', $2, $2), ($3, 'Utilities', $2, $2)
		ON CONFLICT (name) DO NOTHING`,
		uuid.New().String(), now, uuid.New().String())
	if err != nil {
		fail("insert expense categories: %v", err)
	}

	fmt.Printf("seeded admin user %s (change the password after first login)\n", adminEmail)
}

func fail(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
