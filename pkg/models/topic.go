package models

// Topic groups vocabulary for browsing. Learners never modify topics.
type Topic struct {
	ID          int64  `json:"id" db:"id"`
	Title       string `json:"title" db:"title"`
	Description string `json:"description,omitempty" db:"description"`
}
