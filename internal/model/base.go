package model

// PageMeta represents derived pagination state for a list view.
type PageMeta struct {
	CurrentPage  int `json:"current_page"`
	TotalPages   int `json:"total_pages"`
	TotalItems   int `json:"total_items"`
	ItemsPerPage int `json:"items_per_page"`
}

// Sort order values
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// JSONMap represents a generic JSON object
type JSONMap map[string]interface{}
