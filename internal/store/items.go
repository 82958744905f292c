package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"relist/internal/model"
)

const itemColumns = `id, name, description, address, contact_phone, contact_email,
	category_id, category_name, attributes, listed_on, owner_id,
	photo IS NOT NULL`

func scanItem(row interface{ Scan(...any) error }) (*model.Item, error) {
	item := &model.Item{}
	var attrs string
	err := row.Scan(&item.ID, &item.Name, &item.Description, &item.Address,
		&item.ContactPhone, &item.ContactEmail, &item.CategoryID,
		&item.CategoryName, &attrs, &item.ListedOn, &item.OwnerID, &item.HasPhoto)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(attrs), &item.Attributes); err != nil {
		return nil, fmt.Errorf("decoding item attributes: %w", err)
	}
	return item, nil
}

// CreateItem lists an item under the given category. Every common field
// and every attribute the category currently declares must be present and
// non-empty; the attribute bag stored on the item has exactly the
// category's attribute names as keys, captured at this moment. The
// category name is snapshotted and never updated afterwards.
func CreateItem(ctx context.Context, db *sql.DB, categoryID int64, input model.ItemInput, attrs map[string]string, ownerID string) (*model.Item, error) {
	input.Name = strings.TrimSpace(input.Name)
	input.Description = strings.TrimSpace(input.Description)
	input.Address = strings.TrimSpace(input.Address)
	input.ContactPhone = strings.TrimSpace(input.ContactPhone)
	input.ContactEmail = strings.TrimSpace(input.ContactEmail)

	if err := model.Validate(input); err != nil {
		return nil, err
	}

	category, err := GetCategory(ctx, db, categoryID)
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, model.ErrUnknownCategory
	}

	bag := make(map[string]string, len(category.Attributes))
	for _, name := range category.Attributes {
		value := strings.TrimSpace(attrs[name])
		if value == "" {
			return nil, &model.ValidationError{Field: name}
		}
		bag[name] = value
	}

	encoded, err := json.Marshal(bag)
	if err != nil {
		return nil, fmt.Errorf("encoding item attributes: %w", err)
	}

	result, err := db.ExecContext(ctx,
		`INSERT INTO items (name, description, address, contact_phone, contact_email,
		                    category_id, category_name, attributes, listed_on, owner_id)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		input.Name, input.Description, input.Address, input.ContactPhone,
		input.ContactEmail, category.ID, category.Name, string(encoded),
		time.Now().Format("2006-01-02"), ownerID,
	)
	if err != nil {
		return nil, fmt.Errorf("creating item: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("getting item id: %w", err)
	}

	return GetItem(ctx, db, id)
}

// GetItem returns an item by ID, or nil if it does not exist.
func GetItem(ctx context.Context, db *sql.DB, id int64) (*model.Item, error) {
	item, err := scanItem(db.QueryRowContext(ctx,
		`SELECT `+itemColumns+` FROM items WHERE id = ?`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting item: %w", err)
	}
	return item, nil
}

// ListItems returns all items in insertion order.
func ListItems(ctx context.Context, db *sql.DB) ([]model.Item, error) {
	rows, err := db.QueryContext(ctx,
		`SELECT `+itemColumns+` FROM items ORDER BY id`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing items: %w", err)
	}
	defer rows.Close()

	var items []model.Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning item: %w", err)
		}
		items = append(items, *item)
	}
	return items, rows.Err()
}

// SearchItems filters items by category name and keyword, keeping
// insertion order. An empty categoryName matches every category; an empty
// keyword matches every item. The keyword is a case-insensitive substring
// match against the item name or description.
func SearchItems(ctx context.Context, db *sql.DB, categoryName, keyword string) ([]model.Item, error) {
	items, err := ListItems(ctx, db)
	if err != nil {
		return nil, err
	}

	keyword = strings.ToLower(strings.TrimSpace(keyword))

	matches := []model.Item{}
	for _, item := range items {
		if categoryName != "" && item.CategoryName != categoryName {
			continue
		}
		if keyword != "" &&
			!strings.Contains(strings.ToLower(item.Name), keyword) &&
			!strings.Contains(strings.ToLower(item.Description), keyword) {
			continue
		}
		matches = append(matches, item)
	}
	return matches, nil
}

// DeleteItem removes an item. Only the owner or an admin may delete it;
// there is no edit operation, so deletion is the only mutation an item
// ever sees.
func DeleteItem(ctx context.Context, db *sql.DB, id int64, requesterID, requesterRole string) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return model.ErrNotFound
	}

	if requesterRole != model.RoleAdmin && item.OwnerID != requesterID {
		return model.ErrPermissionDenied
	}

	if _, err := db.ExecContext(ctx, `DELETE FROM items WHERE id = ?`, id); err != nil {
		return fmt.Errorf("deleting item: %w", err)
	}
	return nil
}

// SetItemPhoto attaches a photo to a listing. The same ownership rule as
// deletion applies. The photo is side-band data; the listing record itself
// stays as created.
func SetItemPhoto(ctx context.Context, db *sql.DB, id int64, data []byte, mime, requesterID, requesterRole string) error {
	item, err := GetItem(ctx, db, id)
	if err != nil {
		return err
	}
	if item == nil {
		return model.ErrNotFound
	}

	if requesterRole != model.RoleAdmin && item.OwnerID != requesterID {
		return model.ErrPermissionDenied
	}

	if _, err := db.ExecContext(ctx,
		`UPDATE items SET photo = ?, photo_mime = ? WHERE id = ?`,
		data, mime, id,
	); err != nil {
		return fmt.Errorf("setting item photo: %w", err)
	}
	return nil
}

// GetItemPhoto returns an item's photo data and MIME type. Data is nil
// when the item has no photo.
func GetItemPhoto(ctx context.Context, db *sql.DB, id int64) ([]byte, string, error) {
	var data []byte
	var mime sql.NullString
	err := db.QueryRowContext(ctx,
		`SELECT photo, photo_mime FROM items WHERE id = ?`, id,
	).Scan(&data, &mime)
	if err == sql.ErrNoRows {
		return nil, "", nil
	}
	if err != nil {
		return nil, "", fmt.Errorf("getting item photo: %w", err)
	}
	return data, mime.String, nil
}
