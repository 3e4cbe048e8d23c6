package dto

import (
	"time"

	"ratehub/internal/httpapi/models"
)

// CreateCommentDTO for commenting on a review
type CreateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// UpdateCommentDTO for editing a comment; the review association is not
// reassignable so only the text is accepted.
type UpdateCommentDTO struct {
	Text string `json:"text" binding:"required"`
}

// CommentResponse renders the author as a username, read-only.
type CommentResponse struct {
	ID      int64     `json:"id"`
	Author  string    `json:"author"`
	Text    string    `json:"text"`
	PubDate time.Time `json:"pub_date"`
}

func FromModelToCommentResponse(comment *models.Comment) *CommentResponse {
	return &CommentResponse{
		ID:      comment.ID,
		Author:  comment.Author.Username,
		Text:    comment.Text,
		PubDate: comment.PubDate,
	}
}
