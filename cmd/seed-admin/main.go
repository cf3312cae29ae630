// seed-admin creates or updates the operator account.
//
// Usage (from backend directory):
//
//	DB_USER=... DB_PASSWORD=... DB_HOST=... DB_PORT=... DB_NAME=... \
//	ADMIN_EMAIL=ops@example.com ADMIN_PASSWORD=... go run ./cmd/seed-admin
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/contentlens/insight_backend/config"
	"github.com/contentlens/insight_backend/models"
	"github.com/contentlens/insight_backend/utils"
	"gorm.io/gorm"
)

func main() {
	ctx := context.Background()

	adminEmail := strings.ToLower(strings.TrimSpace(os.Getenv("ADMIN_EMAIL")))
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL and ADMIN_PASSWORD are required")
		os.Exit(1)
	}
	if !utils.IsValidEmail(adminEmail) {
		fmt.Fprintln(os.Stderr, "ADMIN_EMAIL is not a valid email address")
		os.Exit(1)
	}

	config.ConnectDatabaseWithRetry()
	db := config.GetDB()
	if db == nil {
		fmt.Fprintln(os.Stderr, "database not initialized (config.GetDB returned nil). Set DB_* env vars.")
		os.Exit(1)
	}

	hashed, err := utils.HashPassword(adminPassword)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to hash password: %v\n", err)
		os.Exit(1)
	}

	var existing models.User
	err = db.WithContext(ctx).Model(&models.User{}).Where("email = ?", adminEmail).First(&existing).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			fmt.Fprintf(os.Stderr, "failed to lookup user: %v\n", err)
			os.Exit(1)
		}
		firstName := "Operator"
		u := models.User{
			Email:     adminEmail,
			Password:  string(hashed),
			FirstName: &firstName,
			IsActive:  utils.NewTrue(),
		}
		if err := db.WithContext(ctx).Create(&u).Error; err != nil {
			fmt.Fprintf(os.Stderr, "failed to create operator user: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("created operator user %s (id=%d)\n", adminEmail, u.ID)
		return
	}

	updates := map[string]interface{}{
		"password":  string(hashed),
		"is_active": true,
	}
	if err := db.WithContext(ctx).Model(&models.User{}).Where("id = ?", existing.ID).Updates(updates).Error; err != nil {
		fmt.Fprintf(os.Stderr, "failed to update operator user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("updated operator user %s (id=%d)\n", adminEmail, existing.ID)
}
