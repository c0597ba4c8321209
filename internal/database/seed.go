// /internal/database/seed.go
package database

import (
	"errors"
	"os"

	"gorm.io/gorm"

	"github.com/rmedina-dev/inventario/internal/logger"
	"github.com/rmedina-dev/inventario/internal/model"
)

// SeedAdmin creates the default administrative account if it does not exist
// yet. Username and password come from ADMIN_USERNAME / ADMIN_PASSWORD.
func SeedAdmin() {
	username := os.Getenv("ADMIN_USERNAME")
	if username == "" {
		username = "admin"
	}

	var user model.User
	result := DB.Where("username = ?", username).First(&user)
	if result.Error == nil {
		return
	}
	if !errors.Is(result.Error, gorm.ErrRecordNotFound) {
		logger.Log.Fatal().Err(result.Error).Msg("failed to look up the admin account")
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "password123"
	}

	admin := model.User{Username: username}
	if err := admin.SetPassword(password); err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to hash the admin password")
	}
	if err := DB.Create(&admin).Error; err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to create the admin account")
	}

	logger.Log.Info().Str("username", username).Msg("default admin account created")
}
