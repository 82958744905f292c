package store

import (
	"context"
	"database/sql"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"relist/internal/model"
)

func mustHash(t *testing.T, password string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("hashing password: %v", err)
	}
	return string(hash)
}

// approvedUser registers and approves an account, returning it.
func approvedUser(t *testing.T, database *sql.DB, username string) *model.User {
	t.Helper()
	ctx := context.Background()

	user, err := RegisterUser(ctx, database, testRegistration(username))
	if err != nil {
		t.Fatalf("RegisterUser(%q): %v", username, err)
	}
	if err := ApproveUser(ctx, database, user.ID); err != nil {
		t.Fatalf("ApproveUser(%q): %v", username, err)
	}
	return user
}

// testCategory creates a category with the given name and attributes.
func testCategory(t *testing.T, database *sql.DB, name string, attrs []string) *model.Category {
	t.Helper()
	ctx := context.Background()

	c, err := CreateCategory(ctx, database)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if err := RenameCategory(ctx, database, c.ID, name); err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	if err := SetCategoryAttributes(ctx, database, c.ID, attrs); err != nil {
		t.Fatalf("SetCategoryAttributes: %v", err)
	}

	c, err = GetCategory(ctx, database, c.ID)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	return c
}
