package deck

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate runs the schema migration for the deck library.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("database connection is required")
	}
	if logger == nil {
		return eris.New("logger is required")
	}

	logger.WithFields(logrus.Fields{"component": "deck.migrate"}).Info("running deck schema migration")

	if err := db.WithContext(ctx).AutoMigrate(&Record{}); err != nil {
		logger.WithFields(logrus.Fields{
			"component": "deck.migrate",
			"error":     err.Error(),
		}).Error("deck schema migration failed")
		return eris.Wrap(err, "migrating deck schema")
	}

	logger.WithFields(logrus.Fields{"component": "deck.migrate"}).Info("deck schema migration complete")

	return nil
}
