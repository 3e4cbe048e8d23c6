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

type CategoryService interface {
	List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error)
	Create(ctx context.Context, in dto.CreateSlugDTO) (*dto.SlugResponse, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
}

func NewCategoryService(categoryRepo repository.CategoryRepository) CategoryService {
	return &categoryService{categoryRepo: categoryRepo}
}

func (s *categoryService) List(ctx context.Context, page, pageSize int) (*dto.Paginated[dto.SlugResponse], error) {
	categories, total, err := s.categoryRepo.GetAll(ctx, page, pageSize)
	if err != nil {
		return nil, err
	}
	responses := make([]dto.SlugResponse, 0, len(categories))
	for _, c := range categories {
		responses = append(responses, dto.FromSlugRef(c.SlugRef))
	}
	return dto.NewPaginated(responses, int(total), page, pageSize), nil
}

func (s *categoryService) Create(ctx context.Context, in dto.CreateSlugDTO) (*dto.SlugResponse, error) {
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

	category := &models.Category{SlugRef: models.SlugRef{
		Name: strings.TrimSpace(in.Name),
		Slug: in.Slug,
	}}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicateSlug) {
			fieldErrs.Add("slug", ErrSlugInUse)
			return nil, fieldErrs
		}
		return nil, err
	}
	resp := dto.FromSlugRef(category.SlugRef)
	return &resp, nil
}

// DeleteBySlug removes a category; titles referencing it keep existing
// with their category nullified by the storage layer.
func (s *categoryService) DeleteBySlug(ctx context.Context, slug string) error {
	return s.categoryRepo.DeleteBySlug(ctx, slug)
}
