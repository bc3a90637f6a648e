package dal

import (
	"errors"
	"fmt"
	"time"

	"rollcall/models"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

var (
	// ErrNotFound is returned when a lookup matches no rows.
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a unique key is already taken.
	ErrConflict = errors.New("already exists")
)

// InitDB creates and returns a database connection with the schema migrated.
func InitDB(dbPath string, logger *zap.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(
		sqlite.Open(dbPath),
		&gorm.Config{
			Logger: gormlogger.New(
				zap.NewStdLog(logger.Named("gorm")),
				gormlogger.Config{
					SlowThreshold:             time.Second,
					LogLevel:                  gormlogger.Warn,
					IgnoreRecordNotFoundError: true,
				},
			),
		},
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to DB: %w", err)
	}
	logger.Info("Connected to database.", zap.String("path", dbPath))

	if err := db.AutoMigrate(&models.TemplateRole{}, &models.ActiveEvent{}); err != nil {
		return nil, fmt.Errorf("failed to migrate DB: %w", err)
	}
	logger.Info("Migrated database.")

	return db, nil
}
