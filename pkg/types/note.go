package types

import "time"

// Note is a stored note. Folder is the empty string for root-level
// notes. The pair (Title, Folder) is unique in the store; saving to an
// existing pair overwrites Content and refreshes UpdatedAt.
type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Folder    string    `json:"folder"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NoteRef identifies a note without carrying its content. Search
// results are returned as refs.
type NoteRef struct {
	Title  string `json:"title"`
	Folder string `json:"folder"`
}
