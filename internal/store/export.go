package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"relist/internal/model"
)

// Snapshot file names, one per collection.
const (
	UsersFile      = "users.json"
	CategoriesFile = "categories.json"
	ItemsFile      = "items.json"
)

// UserRecord is the persisted wire shape of a user. The password field
// carries the bcrypt hash, not a recoverable password.
type UserRecord struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Password string `json:"password"`
	Address  string `json:"address"`
	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	Status   string `json:"status"`
}

// ItemRecord is the persisted wire shape of an item.
type ItemRecord struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Address      string            `json:"address"`
	ContactPhone string            `json:"contact_phone"`
	ContactEmail string            `json:"contact_email"`
	CategoryID   int64             `json:"category_id"`
	CategoryName string            `json:"category_name"`
	Attributes   map[string]string `json:"attributes"`
	Date         string            `json:"date"`
	OwnerID      string            `json:"owner_id"`
}

// Snapshot holds all three collections in their wire shape.
type Snapshot struct {
	Users      []UserRecord     `json:"users"`
	Categories []model.Category `json:"categories"`
	Items      []ItemRecord     `json:"items"`
}

// ExportCollections reads all three collections into a snapshot.
func ExportCollections(ctx context.Context, db *sql.DB) (*Snapshot, error) {
	users, err := ListUsers(ctx, db)
	if err != nil {
		return nil, err
	}
	categories, err := ListCategories(ctx, db)
	if err != nil {
		return nil, err
	}
	items, err := ListItems(ctx, db)
	if err != nil {
		return nil, err
	}

	s := &Snapshot{
		Users:      make([]UserRecord, 0, len(users)),
		Categories: categories,
		Items:      make([]ItemRecord, 0, len(items)),
	}
	if s.Categories == nil {
		s.Categories = []model.Category{}
	}

	for _, u := range users {
		s.Users = append(s.Users, UserRecord{
			ID:       u.ID,
			Username: u.Username,
			Password: u.PasswordHash,
			Address:  u.Address,
			Phone:    u.Phone,
			Email:    u.Email,
			Role:     u.Role,
			Status:   u.Status,
		})
	}
	for _, i := range items {
		s.Items = append(s.Items, ItemRecord{
			ID:           i.ID,
			Name:         i.Name,
			Description:  i.Description,
			Address:      i.Address,
			ContactPhone: i.ContactPhone,
			ContactEmail: i.ContactEmail,
			CategoryID:   i.CategoryID,
			CategoryName: i.CategoryName,
			Attributes:   i.Attributes,
			Date:         i.ListedOn,
			OwnerID:      i.OwnerID,
		})
	}
	return s, nil
}

// WriteDir writes the snapshot as three JSON files in dir. Output is UTF-8
// with non-ASCII text kept literal.
func (s *Snapshot) WriteDir(dir string) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	files := map[string]any{
		UsersFile:      s.Users,
		CategoriesFile: s.Categories,
		ItemsFile:      s.Items,
	}
	for name, collection := range files {
		if err := writeJSONFile(filepath.Join(dir, name), collection); err != nil {
			return err
		}
	}
	return nil
}

func writeJSONFile(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding %s: %w", path, err)
	}
	return nil
}

// ReadSnapshotDir loads a snapshot from dir. A missing or unreadable file
// is treated as an empty collection, not an error.
func ReadSnapshotDir(dir string) *Snapshot {
	s := &Snapshot{}
	readJSONFile(filepath.Join(dir, UsersFile), &s.Users)
	readJSONFile(filepath.Join(dir, CategoriesFile), &s.Categories)
	readJSONFile(filepath.Join(dir, ItemsFile), &s.Items)
	return s
}

func readJSONFile(path string, v any) {
	data, err := os.ReadFile(path)
	if err != nil {
		return
	}
	_ = json.Unmarshal(data, v)
}

// ImportCollections loads a snapshot into an empty database, preserving
// ids. Importing an explicit id above the current sequence moves the
// sequence past it, so future ids stay unique.
func ImportCollections(ctx context.Context, db *sql.DB, s *Snapshot) error {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT (SELECT COUNT(*) FROM users) + (SELECT COUNT(*) FROM categories) + (SELECT COUNT(*) FROM items)`,
	).Scan(&count)
	if err != nil {
		return fmt.Errorf("checking database state: %w", err)
	}
	if count > 0 {
		return fmt.Errorf("import requires an empty database")
	}

	for _, u := range s.Users {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO users (id, username, password_hash, address, phone, email, role, status)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			u.ID, u.Username, u.Password, u.Address, u.Phone, u.Email, u.Role, u.Status,
		); err != nil {
			return fmt.Errorf("importing user %q: %w", u.Username, err)
		}
	}

	for _, c := range s.Categories {
		attrs, err := marshalAttributes(c.Attributes)
		if err != nil {
			return err
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO categories (id, name, attributes) VALUES (?, ?, ?)`,
			c.ID, c.Name, attrs,
		); err != nil {
			return fmt.Errorf("importing category %q: %w", c.Name, err)
		}
	}

	for _, i := range s.Items {
		attrs, err := json.Marshal(i.Attributes)
		if err != nil {
			return fmt.Errorf("encoding attributes for item %d: %w", i.ID, err)
		}
		if _, err := db.ExecContext(ctx,
			`INSERT INTO items (id, name, description, address, contact_phone, contact_email,
			                    category_id, category_name, attributes, listed_on, owner_id)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			i.ID, i.Name, i.Description, i.Address, i.ContactPhone, i.ContactEmail,
			i.CategoryID, i.CategoryName, string(attrs), i.Date, i.OwnerID,
		); err != nil {
			return fmt.Errorf("importing item %d: %w", i.ID, err)
		}
	}

	return nil
}
