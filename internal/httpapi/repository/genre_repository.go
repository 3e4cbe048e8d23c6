package repository

import (
	"context"
	"fmt"

	"ratehub/internal/httpapi/models"

	"gorm.io/gorm"
)

type GenreRepository interface {
	GetAll(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error)
	GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error)
	Create(ctx context.Context, genre *models.Genre) error
	DeleteBySlug(ctx context.Context, slug string) error
}

type genreRepository struct {
	db *gorm.DB
}

func NewGenreRepository(db *gorm.DB) GenreRepository {
	return &genreRepository{db: db}
}

func (r *genreRepository) GetAll(ctx context.Context, page, pageSize int) ([]models.Genre, int64, error) {
	var list []models.Genre
	var total int64

	if err := r.db.WithContext(ctx).Model(&models.Genre{}).Count(&total).Error; err != nil {
		return nil, 0, err
	}

	offset := (page - 1) * pageSize
	if err := r.db.WithContext(ctx).
		Order("name asc").
		Limit(pageSize).
		Offset(offset).
		Find(&list).Error; err != nil {
		return nil, 0, fmt.Errorf("get genres: %w", err)
	}
	return list, total, nil
}

// GetBySlugs returns the genres whose slug is in slugs. Callers compare
// the result length against the request to detect unknown slugs.
func (r *genreRepository) GetBySlugs(ctx context.Context, slugs []string) ([]models.Genre, error) {
	var list []models.Genre
	if len(slugs) == 0 {
		return list, nil
	}
	if err := r.db.WithContext(ctx).Where("slug IN ?", slugs).Find(&list).Error; err != nil {
		return nil, fmt.Errorf("get genres by slugs: %w", err)
	}
	return list, nil
}

func (r *genreRepository) Create(ctx context.Context, genre *models.Genre) error {
	if err := r.db.WithContext(ctx).Create(genre).Error; err != nil {
		if isUniqueViolation(err, "") {
			return ErrDuplicateSlug
		}
		return fmt.Errorf("create genre: %w", err)
	}
	return nil
}

// DeleteBySlug removes a genre and nullifies its side of existing
// title_genres rows.
func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var genre models.Genre
		if err := tx.Where("slug = ?", slug).First(&genre).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.TitleGenre{}).
			Where("genre_id = ?", genre.ID).
			Update("genre_id", nil).Error; err != nil {
			return fmt.Errorf("nullify title_genres: %w", err)
		}
		return tx.Delete(&genre).Error
	})
}
