package db

import (
	"fmt"
	"time"

	"github.com/foodgram/foodgram-api/internal/config"
	"github.com/foodgram/foodgram-api/internal/logger"
	"github.com/foodgram/foodgram-api/internal/models"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// New creates a new database connection.
func New(cfg *config.Config) (*gorm.DB, error) {
	return connectToDatabaseWithRetry(cfg.EnvVars.DatabaseUrl)
}

// connectToDatabaseWithRetry connects to the database and retries if necessary.
func connectToDatabaseWithRetry(databaseURL string) (*gorm.DB, error) {
	logger.Get().Info("connecting to database")
	var database *gorm.DB
	var err error

	start := time.Now()
	for {
		database, err = gorm.Open(postgres.Open(databaseURL), &gorm.Config{})
		if err == nil {
			break
		}
		if time.Since(start) > 1*time.Minute {
			return nil, fmt.Errorf("could not connect to database after 1 minute: %w", err)
		}
		logger.Get().Warn("could not connect to database, retrying...", zap.Error(err))
		time.Sleep(5 * time.Second)
	}

	err = database.AutoMigrate(
		&models.User{},
		&models.Subscription{},
		&models.Ingredient{},
		&models.Tag{},
		&models.Recipe{},
		&models.RecipeIngredient{},
		&models.RecipeTag{},
		&models.UserRecipe{},
	)
	if err != nil {
		logger.Get().Error("database migration failed", zap.Error(err))
		return nil, fmt.Errorf("failed to migrate database schema: %w", err)
	}

	// AutoMigrate cannot express a cross-column check; add the
	// no-self-subscription constraint directly. Postgres has no
	// ADD CONSTRAINT IF NOT EXISTS, so swallow the duplicate.
	result := database.Exec(`DO $$ BEGIN
		ALTER TABLE subscriptions ADD CONSTRAINT chk_no_self_subscription
			CHECK (subscriber_id <> subscribe_to_id);
	EXCEPTION WHEN duplicate_object THEN NULL;
	END $$;`)
	if result.Error != nil {
		logger.Get().Warn("could not add self-subscription check constraint", zap.Error(result.Error))
	}

	return database, nil
}
