package pages

import (
	"context"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Migrate applies the page schema using Gorm's AutoMigrate and logs progress.
func Migrate(ctx context.Context, db *gorm.DB, logger *logrus.Logger) error {
	if db == nil {
		return eris.New("gorm DB is required")
	}

	logFields := logrus.Fields{"component": "pages.migrate"}
	if logger != nil {
		logger.WithFields(logFields).Info("applying page schema")
	}

	if err := db.WithContext(ctx).AutoMigrate(&OfficePage{}, &FrandevPage{}); err != nil {
		if logger != nil {
			logger.WithFields(logFields).WithField("error", err.Error()).Error("page schema migration failed")
		}
		return eris.Wrap(err, "auto migrating page schema")
	}

	if logger != nil {
		logger.WithFields(logFields).Info("page schema migration complete")
	}

	return nil
}
