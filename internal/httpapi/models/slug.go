package models

// SlugRef is the name+slug value shape shared by Category and Genre.
// Both entities are nothing but a labelled slug, so the shape is
// composed into each rather than duplicated.
type SlugRef struct {
	Name string `json:"name" gorm:"size:256;not null"`
	Slug string `json:"slug" gorm:"uniqueIndex;size:50;not null"`
}
