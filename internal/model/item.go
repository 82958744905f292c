package model

// Item is a second-hand listing. Items are immutable once created; the only
// lifecycle operation is deletion by the owner or an admin. CategoryName is
// a snapshot taken at creation and is not updated if the category is later
// renamed.
type Item struct {
	ID           int64             `json:"id"`
	Name         string            `json:"name"`
	Description  string            `json:"description"`
	Address      string            `json:"address"`
	ContactPhone string            `json:"contact_phone"`
	ContactEmail string            `json:"contact_email"`
	CategoryID   int64             `json:"category_id"`
	CategoryName string            `json:"category_name"`
	Attributes   map[string]string `json:"attributes"`
	ListedOn     string            `json:"date"`
	OwnerID      string            `json:"owner_id"`
	HasPhoto     bool              `json:"has_photo,omitempty"`
}

// ItemInput holds the common fields supplied when listing an item. The
// category attribute values travel separately because their keys depend on
// the chosen category.
type ItemInput struct {
	Name         string `json:"name" validate:"required"`
	Description  string `json:"description" validate:"required"`
	Address      string `json:"address" validate:"required"`
	ContactPhone string `json:"contact_phone" validate:"required"`
	ContactEmail string `json:"contact_email" validate:"required"`
}
