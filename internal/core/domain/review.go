package domain

import "time"

// Review is a user's single opinion on a title. At most one review exists per
// (author, title) pair; deleting the title cascades to its reviews.
type Review struct {
	ID      string    `json:"id"`
	TitleID string    `json:"-"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

// Comment is a reply attached to a review. Deleting the review cascades to
// its comments.
type Comment struct {
	ID       string    `json:"id"`
	ReviewID string    `json:"-"`
	Author   string    `json:"author"`
	Text     string    `json:"text"`
	PubDate  time.Time `json:"pub_date"`
}
