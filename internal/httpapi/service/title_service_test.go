package service

import (
	"context"
	"testing"
	"time"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func titleFixture(now time.Time) (*MockTitleRepository, *MockGenreRepository, *MockCategoryRepository, TitleService) {
	titleRepo := new(MockTitleRepository)
	genreRepo := new(MockGenreRepository)
	categoryRepo := new(MockCategoryRepository)
	svc := NewTitleService(titleRepo, genreRepo, categoryRepo, func() time.Time { return now })
	return titleRepo, genreRepo, categoryRepo, svc
}

func genre(id int64, name, slug string) models.Genre {
	return models.Genre{ID: id, SlugRef: models.SlugRef{Name: name, Slug: slug}}
}

func category(id int64, name, slug string) *models.Category {
	return &models.Category{ID: id, SlugRef: models.SlugRef{Name: name, Slug: slug}}
}

func floatPtr(v float64) *float64 { return &v }

func TestCreateTitle_RoundTrip(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, genreRepo, categoryRepo, svc := titleFixture(now)

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama", "scifi"}).
		Return([]models.Genre{genre(1, "Drama", "drama"), genre(2, "Sci-Fi", "scifi")}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "movie").Return(category(3, "Movie", "movie"), nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*models.Title).ID = 10
		}).Return(nil)

	resp, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Blade Runner",
		Year:     1982,
		Genre:    []string{"drama", "scifi"},
		Category: "movie",
	})

	require.NoError(t, err)
	assert.Equal(t, "Blade Runner", resp.Name)
	assert.Equal(t, 1982, resp.Year)
	require.NotNil(t, resp.Category)
	assert.Equal(t, "movie", resp.Category.Slug)
	require.Len(t, resp.Genre, 2)
	assert.Equal(t, "drama", resp.Genre[0].Slug)
	assert.Equal(t, "scifi", resp.Genre[1].Slug)
	assert.Nil(t, resp.Rating, "a new title has no reviews and no rating")
}

func TestCreateTitle_FutureYear(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, genreRepo, categoryRepo, svc := titleFixture(now)

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{genre(1, "Drama", "drama")}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "movie").Return(category(3, "Movie", "movie"), nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "From The Future",
		Year:     2027,
		Genre:    []string{"drama"},
		Category: "movie",
	})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "year")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_CurrentYearAllowed(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, genreRepo, categoryRepo, svc := titleFixture(now)

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{genre(1, "Drama", "drama")}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "movie").Return(category(3, "Movie", "movie"), nil)
	titleRepo.On("Create", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "This Year",
		Year:     2026,
		Genre:    []string{"drama"},
		Category: "movie",
	})
	require.NoError(t, err)
}

func TestCreateTitle_UnknownGenreSlug(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, genreRepo, categoryRepo, svc := titleFixture(now)

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama", "nope"}).
		Return([]models.Genre{genre(1, "Drama", "drama")}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "movie").Return(category(3, "Movie", "movie"), nil)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "Half Known",
		Year:     2020,
		Genre:    []string{"drama", "nope"},
		Category: "movie",
	})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	require.Contains(t, fieldErrs, "genre")
	assert.Contains(t, fieldErrs["genre"][0], "nope")
	titleRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateTitle_UnknownCategorySlug(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	_, genreRepo, categoryRepo, svc := titleFixture(now)

	genreRepo.On("GetBySlugs", mock.Anything, []string{"drama"}).
		Return([]models.Genre{genre(1, "Drama", "drama")}, nil)
	categoryRepo.On("GetBySlug", mock.Anything, "missing").Return(nil, gorm.ErrRecordNotFound)

	_, err := svc.Create(context.Background(), dto.CreateTitleDTO{
		Name:     "No Category",
		Year:     2020,
		Genre:    []string{"drama"},
		Category: "missing",
	})

	var fieldErrs FieldErrors
	require.ErrorAs(t, err, &fieldErrs)
	assert.Contains(t, fieldErrs, "category")
}

func TestGetTitle_RatingRounded(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, _, _, svc := titleFixture(now)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{
		ID: 10, Name: "Rated", Year: 2000,
	}, nil)
	titleRepo.On("AverageScore", mock.Anything, int64(10)).Return(floatPtr(7.5), nil)

	resp, err := svc.GetByID(context.Background(), 10)
	require.NoError(t, err)
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 8, *resp.Rating)
}

func TestGetTitle_NoReviewsNullRating(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, _, _, svc := titleFixture(now)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{
		ID: 10, Name: "Unrated", Year: 2000,
	}, nil)
	titleRepo.On("AverageScore", mock.Anything, int64(10)).Return(nil, nil)

	resp, err := svc.GetByID(context.Background(), 10)
	require.NoError(t, err)
	assert.Nil(t, resp.Rating)
}

func TestUpdateTitle_ReplacesGenres(t *testing.T) {
	now := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	titleRepo, genreRepo, _, svc := titleFixture(now)

	titleRepo.On("GetByID", mock.Anything, int64(10)).Return(&models.Title{
		ID: 10, Name: "Old", Year: 2000,
		Genres: []models.Genre{genre(1, "Drama", "drama")},
	}, nil)
	genreRepo.On("GetBySlugs", mock.Anything, []string{"scifi"}).
		Return([]models.Genre{genre(2, "Sci-Fi", "scifi")}, nil)
	titleRepo.On("Update", mock.Anything, mock.AnythingOfType("*models.Title")).Return(nil)
	titleRepo.On("ReplaceGenres", mock.Anything, mock.AnythingOfType("*models.Title"),
		[]models.Genre{genre(2, "Sci-Fi", "scifi")}).Return(nil)
	titleRepo.On("AverageScore", mock.Anything, int64(10)).Return(nil, nil)

	newGenres := []string{"scifi"}
	newName := "New"
	resp, err := svc.Update(context.Background(), 10, dto.UpdateTitleDTO{
		Name:  &newName,
		Genre: &newGenres,
	})

	require.NoError(t, err)
	assert.Equal(t, "New", resp.Name)
	titleRepo.AssertExpectations(t)
}
