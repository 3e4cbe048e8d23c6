package dto

import "ratehub/internal/httpapi/models"

// Genre and Category share the same wire shape: name plus slug, nothing
// else. The id stays internal.

// CreateSlugDTO for POST /api/genres and POST /api/categories
type CreateSlugDTO struct {
	Name string `json:"name" binding:"required,max=256"`
	Slug string `json:"slug" binding:"required,max=50"`
}

type SlugResponse struct {
	Name string `json:"name"`
	Slug string `json:"slug"`
}

func FromSlugRef(ref models.SlugRef) SlugResponse {
	return SlugResponse{
		Name: ref.Name,
		Slug: ref.Slug,
	}
}
