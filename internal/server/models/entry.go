// Package models holds the diary domain types shared by repositories,
// services and the HTTP layer.
package models

import "time"

// Entry is a single diary record. ID is assigned by the database.
type Entry struct {
	ID       int64     `json:"id" db:"id"`
	Content  string    `json:"content" db:"content"`
	Datetime time.Time `json:"datetime" db:"datetime"`
}

// EntryWithTags is the listing read model: an entry plus its tags sorted by name.
type EntryWithTags struct {
	ID       int64     `json:"id"`
	Content  string    `json:"content"`
	Datetime time.Time `json:"datetime"`
	Tags     []Tag     `json:"tags"`
}

// NewEntryWithTags copies e and attaches tags. A nil slice becomes empty so
// it encodes as [].
func NewEntryWithTags(e *Entry, tags []Tag) *EntryWithTags {
	if tags == nil {
		tags = []Tag{}
	}
	return &EntryWithTags{ID: e.ID, Content: e.Content, Datetime: e.Datetime, Tags: tags}
}
