package models

import "time"

// Author is the {name, email} snapshot copied into a note when it is written.
// It is not kept in sync with the user record.
type Author struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type Note struct {
	ID        int64      `json:"id"`
	Title     string     `json:"title"`
	Content   string     `json:"content"`
	Author    Author     `json:"author"`
	CreatedAt time.Time  `json:"createdAt"`
	UpdatedAt *time.Time `json:"updatedAt"`
}

// NoteInput is the request body of create and update.
type NoteInput struct {
	Title   string  `json:"title"`
	Content string  `json:"content" validate:"required"`
	Author  *Author `json:"author,omitempty"`
}

// NotePage is one page of the insertion-ordered note list plus the total count.
type NotePage struct {
	Notes []Note
	Total int
}
