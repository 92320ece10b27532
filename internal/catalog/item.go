package catalog

// AllCategories is the category filter value that disables filtering.
const AllCategories = "all"

// Item is a catalog entry as returned by the backend.
type Item struct {
	ID          int      `json:"id"`
	Title       string   `json:"title"`
	Price       float64  `json:"price"`
	Category    string   `json:"category"`
	Description string   `json:"description"`
	Images      []string `json:"images"`
}

// Category is a filterable item category.
type Category struct {
	Slug string `json:"slug"`
	Name string `json:"name"`
}

// DefaultCategories mirrors the backend's display order. Used when the
// categories endpoint is unavailable.
func DefaultCategories() []Category {
	return []Category{
		{Slug: "doll", Name: "Куклы"},
		{Slug: "weaving", Name: "Ткачество"},
		{Slug: "painting", Name: "Живопись"},
		{Slug: "scrap", Name: "Скрапбукинг"},
		{Slug: "decoupage", Name: "Декупаж"},
		{Slug: "gifts", Name: "Подарки"},
	}
}

// ItemQuery selects one page of items.
type ItemQuery struct {
	Category string
	Search   string
	Page     int
	Limit    int
}

// IsDefaultFilter reports whether the query is unfiltered.
func (q ItemQuery) IsDefaultFilter() bool {
	return (q.Category == "" || q.Category == AllCategories) && q.Search == ""
}
