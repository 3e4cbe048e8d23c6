package service

import (
	"context"
	"errors"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
)

var ErrCommentReviewMismatch = errors.New("comment does not belong to this review")

type CommentService interface {
	Create(ctx context.Context, actor *Claims, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error)
	List(ctx context.Context, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error)
	Get(ctx context.Context, reviewID, commentID int64) (*dto.CommentResponse, error)
	Update(ctx context.Context, actor *Claims, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error)
	Delete(ctx context.Context, actor *Claims, reviewID, commentID int64) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	reviewRepo  repository.ReviewRepository
}

func NewCommentService(commentRepo repository.CommentRepository, reviewRepo repository.ReviewRepository) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		reviewRepo:  reviewRepo,
	}
}

func (s *commentService) Create(ctx context.Context, actor *Claims, reviewID int64, in dto.CreateCommentDTO) (*dto.CommentResponse, error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	comment := &models.Comment{
		Text:     in.Text,
		AuthorID: actor.UserID,
		ReviewID: reviewID,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}

	created, err := s.commentRepo.GetByID(ctx, comment.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(created), nil
}

func (s *commentService) List(ctx context.Context, reviewID int64, page, pageSize int) (*dto.Paginated[dto.CommentResponse], error) {
	if _, err := s.reviewRepo.GetByID(ctx, reviewID); err != nil {
		return nil, err
	}

	comments, total, err := s.commentRepo.GetByReview(ctx, reviewID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.CommentResponse, 0, len(comments))
	for i := range comments {
		responses = append(responses, *dto.FromModelToCommentResponse(&comments[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *commentService) Get(ctx context.Context, reviewID, commentID int64) (*dto.CommentResponse, error) {
	comment, err := s.commentByReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

// Update edits the text only; the review association is read-only.
func (s *commentService) Update(ctx context.Context, actor *Claims, reviewID, commentID int64, in dto.UpdateCommentDTO) (*dto.CommentResponse, error) {
	comment, err := s.commentByReview(ctx, reviewID, commentID)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, comment.AuthorID) {
		return nil, ErrForbidden
	}

	comment.Text = in.Text
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, err
	}
	return dto.FromModelToCommentResponse(comment), nil
}

func (s *commentService) Delete(ctx context.Context, actor *Claims, reviewID, commentID int64) error {
	comment, err := s.commentByReview(ctx, reviewID, commentID)
	if err != nil {
		return err
	}
	if !canTouch(actor, comment.AuthorID) {
		return ErrForbidden
	}
	return s.commentRepo.Delete(ctx, commentID)
}

func (s *commentService) commentByReview(ctx context.Context, reviewID, commentID int64) (*models.Comment, error) {
	comment, err := s.commentRepo.GetByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment.ReviewID != reviewID {
		return nil, ErrCommentReviewMismatch
	}
	return comment, nil
}
