// seed-admin creates the initial admin profile so the first operator can log
// in. Idempotent: rerunning with an existing username leaves the row alone.
//
// Usage (from backend directory):
//   DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//   SEED_ADMIN_USERNAME=admin SEED_ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"bitbucket.org/mmdatafocus/pawnshop_backend/config"
	"bitbucket.org/mmdatafocus/pawnshop_backend/models"
)

func main() {
	ctx := context.Background()
	config.ConnectDatabaseWithRetry()
	if config.GetDB() == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	if !strings.EqualFold(strings.TrimSpace(os.Getenv("SKIP_MIGRATIONS")), "true") {
		models.MigrateTable()
	}

	username := strings.TrimSpace(os.Getenv("SEED_ADMIN_USERNAME"))
	password := os.Getenv("SEED_ADMIN_PASSWORD")
	fullName := strings.TrimSpace(os.Getenv("SEED_ADMIN_FULL_NAME"))
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "SEED_ADMIN_USERNAME and SEED_ADMIN_PASSWORD are required")
		os.Exit(1)
	}
	if fullName == "" {
		fullName = "Store Admin"
	}

	profile, err := models.SeedAdminProfile(ctx, username, fullName, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to seed admin profile: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Admin profile ready: username=%q id=%s role=%s\n", profile.Username, profile.ID, profile.Role)
}
