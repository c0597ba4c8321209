// /internal/database/database.go
package database

import (
	"os"
	"strings"

	"github.com/glebarez/sqlite"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/rmedina-dev/inventario/internal/logger"
	"github.com/rmedina-dev/inventario/internal/model"
)

var DB *gorm.DB

// ConnectDB opens the database named by DATABASE_URL and runs the migrations.
// Postgres URLs get the postgres driver; anything else is treated as a sqlite
// path, so the default deployment is a single local file.
func ConnectDB() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "inventario.db"
	}

	var dialector gorm.Dialector
	if strings.HasPrefix(dsn, "postgres://") || strings.HasPrefix(dsn, "postgresql://") {
		dialector = postgres.Open(dsn)
	} else {
		dialector = sqlite.Open(dsn)
	}

	var err error
	DB, err = gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		logger.Log.Fatal().Err(err).Str("dsn", dsn).Msg("failed to connect to the database")
	}

	err = DB.AutoMigrate(&model.User{}, &model.Product{}, &model.InventoryRecord{})
	if err != nil {
		logger.Log.Fatal().Err(err).Msg("failed to run migrations")
	}

	logger.Log.Info().Msg("database connection established")
}
