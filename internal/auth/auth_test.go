package auth

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"officepages/app/internal/db"
)

func TestSetPasswordProducesVerifiableHash(t *testing.T) {
	t.Parallel()

	var user User
	if err := user.SetPassword("s3cret"); err != nil {
		t.Fatalf("SetPassword returned error: %v", err)
	}

	if user.PasswordHash == "" || user.PasswordHash == "s3cret" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
	if !strings.HasPrefix(user.PasswordHash, "$2") {
		t.Fatalf("expected bcrypt hash, got %q", user.PasswordHash)
	}

	if !user.VerifyPassword("s3cret") {
		t.Fatalf("expected password to verify")
	}
	if user.VerifyPassword("wrong") {
		t.Fatalf("expected wrong password to fail verification")
	}
}

func TestCreateOrUpdateUserCreatesThenUpdates(t *testing.T) {
	t.Parallel()

	conn := setupAuthDatabase(t)
	ctx := context.Background()

	created, err := CreateOrUpdateUser(ctx, conn, "ck", "first-password")
	if err != nil {
		t.Fatalf("CreateOrUpdateUser returned error: %v", err)
	}
	if !created {
		t.Fatalf("expected first call to create the user")
	}

	created, err = CreateOrUpdateUser(ctx, conn, "ck", "second-password")
	if err != nil {
		t.Fatalf("CreateOrUpdateUser returned error: %v", err)
	}
	if created {
		t.Fatalf("expected second call to update, not create")
	}

	users, err := ListUsers(ctx, conn)
	if err != nil {
		t.Fatalf("ListUsers returned error: %v", err)
	}
	if len(users) != 1 {
		t.Fatalf("expected 1 user, got %d", len(users))
	}
	if !users[0].VerifyPassword("second-password") {
		t.Fatalf("expected updated password to verify")
	}
	if users[0].VerifyPassword("first-password") {
		t.Fatalf("expected old password to be replaced")
	}
}

func TestDeleteUserReportsWhetherRowExisted(t *testing.T) {
	t.Parallel()

	conn := setupAuthDatabase(t)
	ctx := context.Background()

	if _, err := CreateOrUpdateUser(ctx, conn, "ck", "password"); err != nil {
		t.Fatalf("CreateOrUpdateUser returned error: %v", err)
	}

	deleted, err := DeleteUser(ctx, conn, "ck")
	if err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if !deleted {
		t.Fatalf("expected delete to report a removed row")
	}

	deleted, err = DeleteUser(ctx, conn, "ck")
	if err != nil {
		t.Fatalf("DeleteUser returned error: %v", err)
	}
	if deleted {
		t.Fatalf("expected second delete to find nothing")
	}

	// A deleted username can be recreated.
	if _, err := CreateOrUpdateUser(ctx, conn, "ck", "password"); err != nil {
		t.Fatalf("recreating user returned error: %v", err)
	}
}

func TestVerifierAcceptsOnlyValidCredentials(t *testing.T) {
	t.Parallel()

	conn := setupAuthDatabase(t)
	ctx := context.Background()

	if _, err := CreateOrUpdateUser(ctx, conn, "ck", "password"); err != nil {
		t.Fatalf("CreateOrUpdateUser returned error: %v", err)
	}

	verifier, err := NewVerifier(conn, discardLogger())
	if err != nil {
		t.Fatalf("NewVerifier returned error: %v", err)
	}

	cases := []struct {
		name     string
		username string
		password string
		want     bool
	}{
		{"valid", "ck", "password", true},
		{"wrong password", "ck", "nope", false},
		{"unknown user", "ghost", "password", false},
		{"blank username", "", "password", false},
		{"blank password", "ck", "", false},
	}

	for _, tc := range cases {
		ok, err := verifier.Verify(ctx, tc.username, tc.password)
		if err != nil {
			t.Fatalf("%s: Verify returned error: %v", tc.name, err)
		}
		if ok != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, ok)
		}
	}
}

func discardLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func setupAuthDatabase(t *testing.T) *gorm.DB {
	t.Helper()

	path := filepath.Join(t.TempDir(), "auth.db")
	conn, err := db.Open(db.Options{Path: path})
	if err != nil {
		t.Fatalf("db.Open returned error: %v", err)
	}

	t.Cleanup(func() {
		if closeErr := db.Close(conn); closeErr != nil {
			t.Fatalf("closing database failed: %v", closeErr)
		}
	})

	if err := Migrate(context.Background(), conn, discardLogger()); err != nil {
		t.Fatalf("Migrate returned error: %v", err)
	}

	return conn
}
