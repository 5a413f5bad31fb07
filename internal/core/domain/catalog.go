package domain

// Category groups titles by kind (books, films, music).
// Deleting a category never deletes its titles; their reference is nulled.
type Category struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Genre tags titles; a title may carry many genres.
type Genre struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

// Title is a reviewable work.
//
// Rating is the rounded average review score; nil when the title has no
// reviews yet. It is derived, never written by clients.
type Title struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Year        int       `json:"year"`
	Description string    `json:"description,omitempty"`
	Category    *Category `json:"category"`
	Genres      []Genre   `json:"genre"`
	Rating      *int      `json:"rating"`
}
