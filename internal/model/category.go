package model

// Category is a named item classification carrying an ordered list of
// attribute names. The order drives form and display order, so it is kept
// as entered. Names need not be unique.
type Category struct {
	ID         int64    `json:"id"`
	Name       string   `json:"name"`
	Attributes []string `json:"attributes"`
}

// DefaultCategoryName is the placeholder assigned to newly created
// categories before the admin renames them.
const DefaultCategoryName = "New Category"

// DefaultCategories are seeded when the category collection is empty at
// first load.
func DefaultCategories() []Category {
	return []Category{
		{Name: "Food", Attributes: []string{"Shelf Life", "Quantity"}},
		{Name: "Books", Attributes: []string{"Author", "Publisher", "ISBN"}},
		{Name: "Tools", Attributes: []string{"Brand", "Usage Duration"}},
	}
}
