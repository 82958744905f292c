package store

import (
	"context"
	"errors"
	"testing"

	"relist/internal/db"
	"relist/internal/model"
)

func TestCreateCategoryDefaults(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, err := CreateCategory(ctx, database)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if c.Name != model.DefaultCategoryName {
		t.Errorf("expected placeholder name, got %q", c.Name)
	}
	if len(c.Attributes) != 0 {
		t.Errorf("expected empty attribute list, got %v", c.Attributes)
	}
}

func TestRenameCategory(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database)

	if err := RenameCategory(ctx, database, c.ID, "Electronics"); err != nil {
		t.Fatalf("RenameCategory: %v", err)
	}
	got, _ := GetCategory(ctx, database, c.ID)
	if got.Name != "Electronics" {
		t.Errorf("expected 'Electronics', got %q", got.Name)
	}

	var verr *model.ValidationError
	if err := RenameCategory(ctx, database, c.ID, "   "); !errors.As(err, &verr) {
		t.Errorf("RenameCategory with blank name = %v, want ValidationError", err)
	}

	if err := RenameCategory(ctx, database, 999, "X"); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("RenameCategory on missing id = %v, want ErrNotFound", err)
	}

	// Duplicate names are allowed.
	other, _ := CreateCategory(ctx, database)
	if err := RenameCategory(ctx, database, other.ID, "Electronics"); err != nil {
		t.Errorf("RenameCategory to duplicate name = %v, want nil", err)
	}
}

func TestSetCategoryAttributes(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	c, _ := CreateCategory(ctx, database)

	attrs := []string{"Brand", "Condition", "Brand"}
	if err := SetCategoryAttributes(ctx, database, c.ID, attrs); err != nil {
		t.Fatalf("SetCategoryAttributes: %v", err)
	}

	got, _ := GetCategory(ctx, database, c.ID)
	if len(got.Attributes) != 3 {
		t.Fatalf("expected 3 attributes (duplicates kept), got %v", got.Attributes)
	}
	for i, want := range attrs {
		if got.Attributes[i] != want {
			t.Errorf("attribute %d = %q, want %q (order preserved)", i, got.Attributes[i], want)
		}
	}

	// Wholesale replace.
	if err := SetCategoryAttributes(ctx, database, c.ID, []string{"Size"}); err != nil {
		t.Fatalf("SetCategoryAttributes replace: %v", err)
	}
	got, _ = GetCategory(ctx, database, c.ID)
	if len(got.Attributes) != 1 || got.Attributes[0] != "Size" {
		t.Errorf("expected [Size], got %v", got.Attributes)
	}

	var verr *model.ValidationError
	if err := SetCategoryAttributes(ctx, database, c.ID, []string{"ok", " "}); !errors.As(err, &verr) {
		t.Errorf("SetCategoryAttributes with blank entry = %v, want ValidationError", err)
	}
}

func TestDeleteCategoryReferentialGuard(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	owner := approvedUser(t, database, "seller")
	c := testCategory(t, database, "Books", []string{"Author"})

	_, err := CreateItem(ctx, database, c.ID, model.ItemInput{
		Name:         "Calculus Textbook",
		Description:  "Barely used",
		Address:      "Building 7",
		ContactPhone: "555-0101",
		ContactEmail: "seller@example.edu",
	}, map[string]string{"Author": "Stewart"}, owner.ID)
	if err != nil {
		t.Fatalf("CreateItem: %v", err)
	}

	if err := DeleteCategory(ctx, database, c.ID); !errors.Is(err, model.ErrCategoryInUse) {
		t.Errorf("DeleteCategory with referencing item = %v, want ErrCategoryInUse", err)
	}

	empty := testCategory(t, database, "Tools", nil)
	if err := DeleteCategory(ctx, database, empty.ID); err != nil {
		t.Errorf("DeleteCategory without references = %v, want nil", err)
	}

	if err := DeleteCategory(ctx, database, 999); !errors.Is(err, model.ErrNotFound) {
		t.Errorf("DeleteCategory on missing id = %v, want ErrNotFound", err)
	}
}

func TestSeedDefaultCategories(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	if err := SeedDefaultCategories(ctx, database); err != nil {
		t.Fatalf("SeedDefaultCategories: %v", err)
	}
	// Second run is a no-op.
	if err := SeedDefaultCategories(ctx, database); err != nil {
		t.Fatalf("second SeedDefaultCategories: %v", err)
	}

	categories, err := ListCategories(ctx, database)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if len(categories) != 3 {
		t.Fatalf("expected 3 default categories, got %d", len(categories))
	}
	if categories[0].Name != "Food" || categories[1].Name != "Books" || categories[2].Name != "Tools" {
		t.Errorf("unexpected defaults: %q %q %q", categories[0].Name, categories[1].Name, categories[2].Name)
	}
	if len(categories[1].Attributes) != 3 {
		t.Errorf("expected Books to have 3 attributes, got %v", categories[1].Attributes)
	}
}

func TestCategoryIDsNotReused(t *testing.T) {
	database := db.NewTestDB(t)
	ctx := context.Background()

	first, _ := CreateCategory(ctx, database)
	second, _ := CreateCategory(ctx, database)

	if err := DeleteCategory(ctx, database, second.ID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}

	third, err := CreateCategory(ctx, database)
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if third.ID <= second.ID {
		t.Errorf("expected id above %d after deleting the max row, got %d", second.ID, third.ID)
	}
	if third.ID == first.ID {
		t.Error("id reused")
	}
}
