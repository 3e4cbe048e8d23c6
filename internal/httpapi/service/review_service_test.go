package service

import (
	"context"
	"testing"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func reviewFixture() (*MockReviewRepository, *MockTitleRepository, ReviewService) {
	reviewRepo := new(MockReviewRepository)
	titleRepo := new(MockTitleRepository)
	return reviewRepo, titleRepo, NewReviewService(reviewRepo, titleRepo)
}

func intPtr(v int) *int { return &v }

func userClaims(id string) *Claims {
	return &Claims{UserID: id, Username: "u-" + id, Role: models.RoleUser}
}

func TestCreateReview_Success(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1, Name: "T1"}, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 42
		}).Return(nil)
	reviewRepo.On("GetByID", mock.Anything, int64(42)).Return(&models.Review{
		ID:       42,
		Text:     "great",
		AuthorID: "author-1",
		TitleID:  1,
		Score:    7,
		Author:   models.User{ID: "author-1", Username: "alice"},
	}, nil)

	resp, err := svc.Create(context.Background(), userClaims("author-1"), 1, dto.CreateReviewDTO{
		Text:  "great",
		Score: intPtr(7),
	})

	require.NoError(t, err)
	assert.Equal(t, "alice", resp.Author)
	assert.Equal(t, 7, resp.Score)
	reviewRepo.AssertExpectations(t)
}

func TestCreateReview_Duplicate(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Return(repository.ErrDuplicateReview)

	_, err := svc.Create(context.Background(), userClaims("author-1"), 1, dto.CreateReviewDTO{
		Text:  "again",
		Score: intPtr(3),
	})

	require.ErrorIs(t, err, ErrDuplicateReview)
	assert.EqualError(t, err, "you have already reviewed this title")
}

func TestCreateReview_SecondAuthorSucceeds(t *testing.T) {
	reviewRepo, titleRepo, svc := reviewFixture()

	titleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
	reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Review).ID = 43
		}).Return(nil)
	reviewRepo.On("GetByID", mock.Anything, int64(43)).Return(&models.Review{
		ID:       43,
		AuthorID: "author-2",
		TitleID:  1,
		Score:    9,
		Author:   models.User{ID: "author-2", Username: "bob"},
	}, nil)

	resp, err := svc.Create(context.Background(), userClaims("author-2"), 1, dto.CreateReviewDTO{
		Text:  "also great",
		Score: intPtr(9),
	})

	require.NoError(t, err)
	assert.Equal(t, "bob", resp.Author)
}

func TestCreateReview_ScoreOutOfRange(t *testing.T) {
	for _, score := range []int{0, 11, -5, 100} {
		reviewRepo, titleRepo, svc := reviewFixture()
		titleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)

		_, err := svc.Create(context.Background(), userClaims("author-1"), 1, dto.CreateReviewDTO{
			Text:  "x",
			Score: intPtr(score),
		})

		require.ErrorIs(t, err, ErrScoreOutOfRange, "score %d must be rejected", score)
		assert.EqualError(t, err, "score must be an integer from 1 to 10")
		reviewRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	}
}

func TestCreateReview_ScoreBoundsInclusive(t *testing.T) {
	for _, score := range []int{1, 10} {
		reviewRepo, titleRepo, svc := reviewFixture()
		titleRepo.On("GetByID", mock.Anything, int64(1)).Return(&models.Title{ID: 1}, nil)
		reviewRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Review")).
			Run(func(args mock.Arguments) {
				args.Get(1).(*models.Review).ID = 50
			}).Return(nil)
		reviewRepo.On("GetByID", mock.Anything, int64(50)).Return(&models.Review{
			ID: 50, AuthorID: "a", TitleID: 1, Score: score,
			Author: models.User{Username: "alice"},
		}, nil)

		_, err := svc.Create(context.Background(), userClaims("a"), 1, dto.CreateReviewDTO{
			Text:  "edge",
			Score: intPtr(score),
		})
		require.NoError(t, err, "score %d must be accepted", score)
	}
}

func TestCreateReview_TitleNotFound(t *testing.T) {
	_, titleRepo, svc := reviewFixture()

	titleRepo.On("GetByID", mock.Anything, int64(99)).Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), userClaims("a"), 99, dto.CreateReviewDTO{
		Text:  "x",
		Score: intPtr(5),
	})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestUpdateReview_OnlyAuthorOrModerator(t *testing.T) {
	existing := func() *models.Review {
		return &models.Review{ID: 7, AuthorID: "author-1", TitleID: 1, Score: 5,
			Author: models.User{ID: "author-1", Username: "alice"}}
	}

	t.Run("StrangerForbidden", func(t *testing.T) {
		reviewRepo, _, svc := reviewFixture()
		reviewRepo.On("GetByID", mock.Anything, int64(7)).Return(existing(), nil)

		_, err := svc.Update(context.Background(), userClaims("someone-else"), 1, 7, dto.UpdateReviewDTO{
			Score: intPtr(2),
		})
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("ModeratorAllowed", func(t *testing.T) {
		reviewRepo, _, svc := reviewFixture()
		reviewRepo.On("GetByID", mock.Anything, int64(7)).Return(existing(), nil)
		reviewRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Review")).Return(nil)

		moderator := &Claims{UserID: "mod-1", Username: "mod", Role: models.RoleModerator}
		resp, err := svc.Update(context.Background(), moderator, 1, 7, dto.UpdateReviewDTO{
			Score: intPtr(2),
		})
		require.NoError(t, err)
		assert.Equal(t, 2, resp.Score)
	})

	t.Run("UpdateScoreStillBounded", func(t *testing.T) {
		reviewRepo, _, svc := reviewFixture()
		reviewRepo.On("GetByID", mock.Anything, int64(7)).Return(existing(), nil)

		_, err := svc.Update(context.Background(), userClaims("author-1"), 1, 7, dto.UpdateReviewDTO{
			Score: intPtr(11),
		})
		assert.ErrorIs(t, err, ErrScoreOutOfRange)
	})
}

func TestGetReview_TitleMismatch(t *testing.T) {
	reviewRepo, _, svc := reviewFixture()

	reviewRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Review{
		ID: 7, AuthorID: "a", TitleID: 2,
	}, nil)

	_, err := svc.Get(context.Background(), 1, 7)
	assert.ErrorIs(t, err, ErrReviewTitleMismatch)
}

func TestDeleteReview_Author(t *testing.T) {
	reviewRepo, _, svc := reviewFixture()

	reviewRepo.On("GetByID", mock.Anything, int64(7)).Return(&models.Review{
		ID: 7, AuthorID: "author-1", TitleID: 1,
	}, nil)
	reviewRepo.On("Delete", mock.Anything, int64(7)).Return(nil)

	err := svc.Delete(context.Background(), userClaims("author-1"), 1, 7)
	require.NoError(t, err)
	reviewRepo.AssertExpectations(t)
}
