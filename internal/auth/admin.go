package auth

import (
	"context"
	"strings"

	"github.com/rotisserie/eris"
	"gorm.io/gorm"
)

// CreateOrUpdateUser creates the named user with a bcrypt-hashed password, or
// re-hashes the password when the user already exists. It reports whether a
// new row was created.
func CreateOrUpdateUser(ctx context.Context, db *gorm.DB, username, password string) (bool, error) {
	trimmedUser := strings.TrimSpace(username)
	if trimmedUser == "" {
		return false, eris.New("username is required")
	}
	if password == "" {
		return false, eris.New("password is required")
	}

	var existing User
	err := db.WithContext(ctx).First(&existing, "username = ?", trimmedUser).Error
	switch {
	case err == nil:
		if hashErr := existing.SetPassword(password); hashErr != nil {
			return false, hashErr
		}
		if saveErr := db.WithContext(ctx).Save(&existing).Error; saveErr != nil {
			return false, eris.Wrapf(saveErr, "updating user: %s", trimmedUser)
		}
		return false, nil
	case eris.Is(err, gorm.ErrRecordNotFound):
		user := User{Username: trimmedUser}
		if hashErr := user.SetPassword(password); hashErr != nil {
			return false, hashErr
		}
		if createErr := db.WithContext(ctx).Create(&user).Error; createErr != nil {
			return false, eris.Wrapf(createErr, "creating user: %s", trimmedUser)
		}
		return true, nil
	default:
		return false, eris.Wrapf(err, "looking up user: %s", trimmedUser)
	}
}

// DeleteUser removes the named user. It reports whether a row was deleted.
func DeleteUser(ctx context.Context, db *gorm.DB, username string) (bool, error) {
	trimmed := strings.TrimSpace(username)
	if trimmed == "" {
		return false, eris.New("username is required")
	}

	result := db.WithContext(ctx).Unscoped().Where("username = ?", trimmed).Delete(&User{})
	if result.Error != nil {
		return false, eris.Wrapf(result.Error, "deleting user: %s", trimmed)
	}

	return result.RowsAffected > 0, nil
}

// ListUsers returns every user ordered by username.
func ListUsers(ctx context.Context, db *gorm.DB) ([]User, error) {
	var users []User
	if err := db.WithContext(ctx).Order("username ASC").Find(&users).Error; err != nil {
		return nil, eris.Wrap(err, "listing users")
	}

	return users, nil
}
