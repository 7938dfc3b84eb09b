// Command seed_admin creates the initial platform administrator account.
// The public registration endpoint only creates teacher accounts, so a
// fresh deployment runs this once before the admin panel is usable.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/engagebot/timetable-api/internal/models"
	"github.com/engagebot/timetable-api/internal/repository"
	"github.com/engagebot/timetable-api/pkg/config"
	"github.com/engagebot/timetable-api/pkg/database"
)

func main() {
	var (
		username string
		email    string
		password string
	)

	flag.StringVar(&username, "username", "admin", "Admin username")
	flag.StringVar(&email, "email", "", "Admin email address")
	flag.StringVar(&password, "password", "", "Admin password (falls back to ADMIN_PASSWORD env)")
	flag.Parse()

	if password == "" {
		password = os.Getenv("ADMIN_PASSWORD")
	}
	if email == "" || password == "" {
		log.Fatal("both -email and a password (-password or ADMIN_PASSWORD) are required")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	users := repository.NewUserRepository(db)

	taken, err := users.ExistsByUsername(ctx, username)
	if err != nil {
		log.Fatalf("failed to check username: %v", err)
	}
	if taken {
		log.Fatalf("username %q is already taken", username)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	admin := &models.User{
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         models.RoleAdmin,
		Active:       true,
	}
	if err := users.Create(ctx, admin); err != nil {
		log.Fatalf("failed to create admin: %v", err)
	}

	fmt.Printf("admin account %q created (id %s)\n", admin.Username, admin.ID)
}
