package service

import (
	"context"
	"errors"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
)

type ReviewService interface {
	Create(ctx context.Context, actor *Claims, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error)
	List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error)
	Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error)
	Update(ctx context.Context, actor *Claims, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error)
	Delete(ctx context.Context, actor *Claims, titleID, reviewID int64) error
}

type reviewService struct {
	reviewRepo repository.ReviewRepository
	titleRepo  repository.TitleRepository
}

func NewReviewService(reviewRepo repository.ReviewRepository, titleRepo repository.TitleRepository) ReviewService {
	return &reviewService{
		reviewRepo: reviewRepo,
		titleRepo:  titleRepo,
	}
}

// Create posts a review. The author comes from the authenticated identity
// and the title from the route; neither is part of the request body. The
// one-review-per-author-per-title rule is enforced transactionally in the
// repository and surfaces here with its descriptive message.
func (s *reviewService) Create(ctx context.Context, actor *Claims, titleID int64, in dto.CreateReviewDTO) (*dto.ReviewResponse, error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, err
	}
	if err := checkScore(in.Score); err != nil {
		return nil, err
	}

	review := &models.Review{
		Text:     in.Text,
		AuthorID: actor.UserID,
		TitleID:  titleID,
		Score:    *in.Score,
	}
	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			return nil, ErrDuplicateReview
		}
		return nil, err
	}

	// Reload to pick up the preloaded author for serialization.
	created, err := s.reviewRepo.GetByID(ctx, review.ID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(created), nil
}

func (s *reviewService) List(ctx context.Context, titleID int64, page, pageSize int) (*dto.Paginated[dto.ReviewResponse], error) {
	if _, err := s.titleRepo.GetByID(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, total, err := s.reviewRepo.GetByTitle(ctx, titleID, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.ReviewResponse, 0, len(reviews))
	for i := range reviews {
		responses = append(responses, *dto.FromModelToReviewResponse(&reviews[i]))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *reviewService) Get(ctx context.Context, titleID, reviewID int64) (*dto.ReviewResponse, error) {
	review, err := s.reviewByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Update edits text and score. Author and title are read-only; the score
// constraint applies on every write path.
func (s *reviewService) Update(ctx context.Context, actor *Claims, titleID, reviewID int64, in dto.UpdateReviewDTO) (*dto.ReviewResponse, error) {
	review, err := s.reviewByTitle(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}
	if !canTouch(actor, review.AuthorID) {
		return nil, ErrForbidden
	}
	if in.Score != nil {
		if err := checkScore(in.Score); err != nil {
			return nil, err
		}
		review.Score = *in.Score
	}
	if in.Text != nil {
		review.Text = *in.Text
	}

	if err := s.reviewRepo.Update(ctx, review); err != nil {
		return nil, err
	}
	return dto.FromModelToReviewResponse(review), nil
}

// Delete removes a review along with its comments (cascade at storage).
func (s *reviewService) Delete(ctx context.Context, actor *Claims, titleID, reviewID int64) error {
	review, err := s.reviewByTitle(ctx, titleID, reviewID)
	if err != nil {
		return err
	}
	if !canTouch(actor, review.AuthorID) {
		return ErrForbidden
	}
	return s.reviewRepo.Delete(ctx, reviewID)
}

// reviewByTitle fetches a review and verifies it belongs to the routed
// title, so a review id cannot be addressed under someone else's title.
func (s *reviewService) reviewByTitle(ctx context.Context, titleID, reviewID int64) (*models.Review, error) {
	review, err := s.reviewRepo.GetByID(ctx, reviewID)
	if err != nil {
		return nil, err
	}
	if review.TitleID != titleID {
		return nil, ErrReviewTitleMismatch
	}
	return review, nil
}

var ErrReviewTitleMismatch = errors.New("review does not belong to this title")

func checkScore(score *int) error {
	if score == nil || *score < 1 || *score > 10 {
		return ErrScoreOutOfRange
	}
	return nil
}

// canTouch reports whether actor may mutate content authored by authorID:
// the author themselves, a moderator, or an admin.
func canTouch(actor *Claims, authorID string) bool {
	return actor.UserID == authorID || actor.Role.CanModerate()
}
