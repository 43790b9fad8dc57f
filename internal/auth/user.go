package auth

import (
	"github.com/rotisserie/eris"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// User represents a service account allowed to call the API.
type User struct {
	gorm.Model
	Username     string `gorm:"size:64;uniqueIndex:idx_users_username;not null"`
	PasswordHash string `gorm:"size:128;not null"`
}

// TableName defines the table name for the User model.
func (User) TableName() string {
	return "users"
}

// SetPassword replaces the stored hash with a bcrypt hash of the given password.
func (u *User) SetPassword(password string) error {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return eris.Wrap(err, "hashing password")
	}

	u.PasswordHash = string(hashed)
	return nil
}

// VerifyPassword reports whether the given password matches the stored hash.
func (u *User) VerifyPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
