package dto

import (
	"math"

	"ratehub/internal/httpapi/models"
)

// CreateTitleDTO used for POST /api/titles. Genres and category arrive as
// slugs; each must resolve to a stored record or the write fails.
type CreateTitleDTO struct {
	Name        string   `json:"name" binding:"required,max=500"`
	Year        int      `json:"year" binding:"required"`
	Description *string  `json:"description,omitempty"`
	Genre       []string `json:"genre" binding:"required"`
	Category    string   `json:"category" binding:"required"`
}

// UpdateTitleDTO used for PATCH /api/titles/:id (partial updates allowed)
type UpdateTitleDTO struct {
	Name        *string   `json:"name,omitempty" binding:"omitempty,max=500"`
	Year        *int      `json:"year,omitempty"`
	Description *string   `json:"description,omitempty"`
	Genre       *[]string `json:"genre,omitempty"`
	Category    *string   `json:"category,omitempty"`
}

// TitleResponse expands genre and category into nested objects and carries
// the computed rating. Rating is null when the title has no reviews.
type TitleResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	Year        int            `json:"year"`
	Rating      *int           `json:"rating"`
	Description *string        `json:"description,omitempty"`
	Genre       []SlugResponse `json:"genre"`
	Category    *SlugResponse  `json:"category"`
}

// FromModelToTitleResponse builds the read shape. avgScore comes from the
// query-time aggregation; nil means no reviews and stays nil.
func FromModelToTitleResponse(title *models.Title, avgScore *float64) *TitleResponse {
	genres := make([]SlugResponse, 0, len(title.Genres))
	for _, g := range title.Genres {
		genres = append(genres, FromSlugRef(g.SlugRef))
	}

	var category *SlugResponse
	if title.Category != nil {
		ref := FromSlugRef(title.Category.SlugRef)
		category = &ref
	}

	var rating *int
	if avgScore != nil {
		rounded := int(math.Round(*avgScore))
		rating = &rounded
	}

	return &TitleResponse{
		ID:          title.ID,
		Name:        title.Name,
		Year:        title.Year,
		Rating:      rating,
		Description: title.Description,
		Genre:       genres,
		Category:    category,
	}
}
