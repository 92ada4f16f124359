package database

import (
	"contracts-app/config"
	"contracts-app/internal/domain/chat"
	"contracts-app/internal/domain/contracts"
	"contracts-app/internal/domain/deliverables"
	"contracts-app/internal/domain/events"
	"contracts-app/internal/domain/versions"
	"contracts-app/internal/platform/logger"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(log *logger.Logger) {
	if config.DB_URL == "" {
		log.Fatal("DB_URL not set")
	}

	db, err := gorm.Open(postgres.Open(config.DB_URL), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}

	if err := Migrate(db); err != nil {
		log.Fatal("auto-migrate failed", "error", err)
	}

	DB = db
	log.Info("database connected and migrated")
}

// Migrate creates or updates every table the engine owns.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		// contract record + negotiation thread
		&contracts.Contract{},
		&contracts.ThreadEntry{},

		// deliverables
		&deliverables.List{},
		&deliverables.Deliverable{},

		// versions
		&versions.Version{},

		// chat + transition log
		&chat.Message{},
		&events.Event{},
	)
}
