package service

import (
	"context"
	"errors"
	"strings"

	"ratehub/internal/httpapi/dto"
	"ratehub/internal/httpapi/models"
	"ratehub/internal/httpapi/repository"
	"ratehub/internal/validator"
)

type GenreService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error)
	Create(ctx context.Context, in dto.CreateSlugDTO) (*dto.SlugResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
}

func NewGenreService(genreRepo repository.GenreRepository) GenreService {
	return &genreService{genreRepo: genreRepo}
}

func (s *genreService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error) {
	genres, total, err := s.genreRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SlugResponse, 0, len(genres))
	for _, g := range genres {
		responses = append(responses, dto.FromSlugRef(g.SlugRef))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *genreService) Create(ctx context.Context, in dto.CreateSlugDTO) (*dto.SlugResponse, error) {
	fieldErrs := FieldErrors{}
	if strings.TrimSpace(in.Name) == "" {
		fieldErrs.Add("name", errors.New("name required"))
	}
	if err := validator.Slug(in.Slug); err != nil {
		fieldErrs.Add("slug", err)
	}
	if !fieldErrs.Empty() {
		return nil, fieldErrs
	}

	genre := &models.Genre{SlugRef: models.SlugRef{
		Name: strings.TrimSpace(in.Name),
		Slug: in.Slug,
	}}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			fieldErrs.Add("slug", ErrSlugInUse)
			return nil, fieldErrs
		}
		return nil, err
	}
	resp := dto.FromSlugRef(genre.SlugRef)
	return &resp, nil
}

func (s *genreService) DeleteBySlug(ctx context.Context, slug string) error {
	return s.genreRepo.DeleteBySlug(ctx, slug)
}
