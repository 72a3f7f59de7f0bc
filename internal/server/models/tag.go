package models

// Tag is a label shared across entries. Name is unique and case-sensitive.
type Tag struct {
	ID   int64  `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

