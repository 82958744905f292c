package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"relist/internal/model"
)

// marshalAttributes encodes a category's ordered attribute list for storage.
func marshalAttributes(names []string) (string, error) {
	if names == nil {
		names = []string{}
	}
	data, err := json.Marshal(names)
	if err != nil {
		return "", fmt.Errorf("encoding attributes: %w", err)
	}
	return string(data), nil
}

func unmarshalAttributes(raw string) ([]string, error) {
	names := []string{}
	if raw == "" {
		return names, nil
	}
	if err := json.Unmarshal([]byte(raw), &names); err != nil {
		return nil, fmt.Errorf("decoding attributes: %w", err)
	}
	return names, nil
}

// CreateCategory creates a new category with a placeholder name and an
// empty attribute list, for the admin to fill in.
func CreateCategory(ctx context.Context, db *sql.DB) (*model.Category, error) {
	result, err := db.ExecContext(ctx,
		`INSERT INTO categories (name, attributes) VALUES (?, '[]')`,
		model.DefaultCategoryName,
	)
	if err != nil {
		return nil, fmt.Errorf("creating category: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting category id: %w", err)
	}

	return GetCategory(ctx, db, id)
}

// GetCategory returns a category by ID, or nil if it does not exist.
func GetCategory(ctx context.Context, db *sql.DB, id int64) (*model.Category, error) {
	c := &model.Category{}
	var attrs string
	err := db.QueryRowContext(ctx,
		`SELECT id, name, attributes FROM categories WHERE id = ?`, id,
	).Scan(&c.ID, &c.Name, &attrs)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting category: %w", err)
	}

	c.Attributes, err = unmarshalAttributes(attrs)
	if err != nil {
		return nil, err
	}
	return c, nil
}

// ListCategories returns all categories in id order.
func ListCategories(ctx context.Context, db *sql.DB) ([]model.Category, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, attributes FROM categories ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		var attrs string
		if err := rows.Scan(&c.ID, &c.Name, &attrs); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}
		if c.Attributes, err = unmarshalAttributes(attrs); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// RenameCategory sets a category's name. Names are not required to be
// unique, only non-empty.
func RenameCategory(ctx context.Context, db *sql.DB, id int64, name string) error {
	name = strings.TrimSpace(name)
	if name == "" {
		return &model.ValidationError{Field: "name"}
	}

	result, err := db.ExecContext(ctx,
		`UPDATE categories SET name = ? WHERE id = ?`, name, id,
	)
	if err != nil {
		return fmt.Errorf("renaming category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SetCategoryAttributes replaces a category's attribute list wholesale,
// preserving the given order. Entries must be non-empty; duplicates are
// allowed. Items created earlier keep the attribute bag captured at their
// creation.
func SetCategoryAttributes(ctx context.Context, db *sql.DB, id int64, names []string) error {
	trimmed := make([]string, 0, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			return &model.ValidationError{Field: "attribute name"}
		}
		trimmed = append(trimmed, name)
	}

	attrs, err := marshalAttributes(trimmed)
	if err != nil {
		return err
	}

	result, err := db.ExecContext(ctx,
		`UPDATE categories SET attributes = ? WHERE id = ?`, attrs, id,
	)
	if err != nil {
		return fmt.Errorf("setting category attributes: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// DeleteCategory removes a category. Fails with ErrCategoryInUse while any
// item still references it.
func DeleteCategory(ctx context.Context, db *sql.DB, id int64) error {
	var refs int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM items WHERE category_id = ?`, id,
	).Scan(&refs)
	if err != nil {
		return fmt.Errorf("checking category references: %w", err)
	}
	if refs > 0 {
		return model.ErrCategoryInUse
	}

	result, err := db.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("deleting category: %w", err)
	}
	if n, _ := result.RowsAffected(); n == 0 {
		return model.ErrNotFound
	}
	return nil
}

// SeedDefaultCategories inserts the default categories if the collection is
// empty. Idempotent across restarts.
func SeedDefaultCategories(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`).Scan(&count); err != nil {
		return fmt.Errorf("counting categories: %w", err)
	}
	if count > 0 {
		return nil
	}

	for _, c := range model.DefaultCategories() {
		attrs, err := marshalAttributes(c.Attributes)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO categories (name, attributes) VALUES (?, ?)`,
			c.Name, attrs,
		); err != nil {
			return fmt.Errorf("seeding category %q: %w", c.Name, err)
		}
	}
	return nil
}
