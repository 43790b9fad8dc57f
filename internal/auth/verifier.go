package auth

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// Verifier checks request credentials against the user table.
type Verifier interface {
	Verify(ctx context.Context, username, password string) (bool, error)
}

// GormVerifier looks up users through a Gorm database connection.
type GormVerifier struct {
	db     *gorm.DB
	logger *logrus.Logger
}

// NewVerifier constructs a Gorm-backed credential verifier.
func NewVerifier(db *gorm.DB, logger *logrus.Logger) (*GormVerifier, error) {
	if db == nil {
		return nil, eris.New("gorm DB is required")
	}

	return &GormVerifier{db: db, logger: logger}, nil
}

var _ Verifier = (*GormVerifier)(nil)

// Verify reports whether the username exists and the password matches its hash.
// An unknown username and a bad password are indistinguishable to the caller.
func (v *GormVerifier) Verify(ctx context.Context, username, password string) (bool, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" || password == "" {
		return false, nil
	}

	var user User
	err := v.db.WithContext(ctx).First(&user, "username = ?", trimmed).Error
	if err != nil {
		if eris.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		if v.logger != nil {
			v.logger.WithField("error", err.Error()).WithField("username", trimmed).Error("looking up user")
		}
		return false, eris.Wrapf(err, "looking up user: %s", trimmed)
	}

	return user.VerifyPassword(password), nil
}
