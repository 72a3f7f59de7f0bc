package models

// Page is one page of a listing together with pagination info.
type Page[T any] struct {
	Entries     []T `json:"entries"`
	TotalPages  int `json:"total_pages"`
	CurrentPage int `json:"current_page"`
}

// TotalPages returns ceil(count/limit); zero when there is nothing to show.
func TotalPages(count int64, limit int) int {
	if count <= 0 || limit <= 0 {
		return 0
	}
	return int((count + int64(limit) - 1) / int64(limit))
}

// Offset returns the row offset of a 1-based page.
func Offset(page, limit int) int {
	return (page - 1) * limit
}
