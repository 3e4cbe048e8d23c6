package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
	"ratehub/internal/validator"

	"gorm.io/gorm"
)

type TitleService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error)
	GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error)
	Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error)
	Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error)
	Delete(ctx context.Context, id int64) error
}

type titleService struct {
	titleRepo    repository.TitleRepository
	genreRepo    repository.GenreRepository
	categoryRepo repository.CategoryRepository
	now          func() time.Time
}

// NewTitleService wires the repositories and the clock used for the
// publication-year bound. Pass time.Now outside of tests.
func NewTitleService(
	titleRepo repository.TitleRepository,
	genreRepo repository.GenreRepository,
	categoryRepo repository.CategoryRepository,
	now func() time.Time,
) TitleService {
	return &titleService{
		titleRepo:    titleRepo,
		genreRepo:    genreRepo,
		categoryRepo: categoryRepo,
		now:          now,
	}
}

func (s *titleService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.TitleResponse], error) {
	titles, total, err := s.titleRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}

	responses := make([]dto.TitleResponse, 0, len(titles))
	for i := range titles {
		avg, err := s.titleRepo.AverageScore(ctx, titles[i].ID)
		if err != nil {
			return nil, err
		}
		responses = append(responses, *dto.FromModelToTitleResponse(&titles[i], avg))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *titleService) GetByID(ctx context.Context, id int64) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	avg, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, avg), nil
}

func (s *titleService) Create(ctx context.Context, in dto.CreateTitleDTO) (*dto.TitleResponse, error) {
	fieldErrs := FieldErrors{}
	if err := validator.Year(in.Year, s.now()); err != nil {
		fieldErrs.Add("year", err)
	}

	genres, err := s.resolveGenres(ctx, in.Genre, fieldErrs)
	if err != nil {
		return nil, err
	}
	category, err := s.resolveCategory(ctx, in.Category, fieldErrs)
	if err != nil {
		return nil, err
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	title := &models.Title{
		Name:        in.Name,
		Year:        in.Year,
		Description: in.Description,
		CategoryID:  &category.ID,
		Category:    category,
		Genres:      genres,
	}
	if err := s.titleRepo.Create(ctx, title); err != nil {
		return nil, err
	}

	// A freshly created title has no reviews yet; rating is null.
	return dto.FromModelToTitleResponse(title, nil), nil
}

func (s *titleService) Update(ctx context.Context, id int64, in dto.UpdateTitleDTO) (*dto.TitleResponse, error) {
	title, err := s.titleRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrs := FieldErrors{}
	if in.Year != nil {
		if err := validator.Year(*in.Year, s.now()); err != nil {
			fieldErrs.Add("year", err)
		}
	}

	var genres []models.Genre
	if in.Genre != nil {
		genres, err = s.resolveGenres(ctx, *in.Genre, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	var category *models.Category
	if in.Category != nil {
		category, err = s.resolveCategory(ctx, *in.Category, fieldErrs)
		if err != nil {
			return nil, err
		}
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	if in.Name != nil {
		title.Name = *in.Name
	}
	if in.Year != nil {
		title.Year = *in.Year
	}
	if in.Description != nil {
		title.Description = in.Description
	}
	if category != nil {
		title.CategoryID = &category.ID
		title.Category = category
	}

	if err := s.titleRepo.Update(ctx, title); err != nil {
		return nil, err
	}
	if in.Genre != nil {
		if err := s.titleRepo.ReplaceGenres(ctx, title, genres); err != nil {
			return nil, err
		}
	}

	avg, err := s.titleRepo.AverageScore(ctx, id)
	if err != nil {
		return nil, err
	}
	return dto.FromModelToTitleResponse(title, avg), nil
}

func (s *titleService) Delete(ctx context.Context, id int64) error {
	return s.titleRepo.Delete(ctx, id)
}

// resolveGenres maps requested slugs to stored genres. Unknown slugs are
// reported together on the genre field.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string, fieldErrs FieldErrors) ([]models.Genre, error) {
	genres, err := s.genreRepo.GetBySlugs(ctx, slugs)
	if err != nil {
		return nil, err
	}
	if len(genres) != len(slugs) {
		found := make(map[string]bool, len(genres))
		for _, g := range genres {
			found[g.Slug] = true
		}
		missing := make([]string, 0)
		for _, slug := range slugs {
			if !found[slug] {
				missing = append(missing, slug)
			}
		}
		fieldErrs.Add("genre", fmt.Errorf("unknown genre slug(s): %s", strings.Join(missing, ", ")))
	}
	return genres, nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string, fieldErrs FieldErrors) (*models.Category, error) {
	category, err := s.categoryRepo.GetBySlug(ctx, slug)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			fieldErrs.Add("category", fmt.Errorf("unknown category slug: %s", slug))
			return nil, nil
		}
		return nil, err
	}
	return category, nil
}
