package postgres

import (
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"ojalocal/internal/domain/entity"
)

// Connect opens the shared connection pool for the process. TranslateError
// maps driver errors to gorm sentinels (gorm.ErrDuplicatedKey in
// particular, which the transaction repository relies on).
func Connect(dsn string) (*gorm.DB, error) {
	return gorm.Open(postgres.Open(dsn), &gorm.Config{
		TranslateError: true,
	})
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&entity.User{},
		&entity.Listing{},
		&entity.Transaction{},
		&entity.Notification{},
		&entity.ConversationMarker{},
	)
}
