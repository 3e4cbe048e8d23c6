// Command dataloader bulk-loads fixture data into the database from a
// directory of CSV files (users, categories, genres, titles and their
// genre links, reviews, comments). Rows keep their CSV ids so files can
// reference each other; users get fresh UUIDs and a mapping is kept for
// review and comment authors. The whole load runs in one transaction.
//
// Usage: dataloader [-dir path/to/csv]
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ratehub/database"
	"ratehub/internal/config"
	"ratehub/internal/httpapi/models"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	dir := flag.String("dir", "data", "directory containing the CSV fixture files")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		slog.Warn("No .env file found, relying on environment variables")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load configuration", "error", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()}))

	db, err := database.ConnectDB(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := load(db, *dir, logger); err != nil {
		logger.Error("Import failed", "error", err)
		os.Exit(1)
	}
	logger.Info("Import completed")
}

// load imports every fixture file present in dir. Files that are absent
// are skipped with a warning so partial fixture sets still load.
//
// TODO: bump the id sequences after the explicit-id inserts so API
// writes don't collide with fixture ids.
func load(db *gorm.DB, dir string, logger *slog.Logger) error {
	return db.Transaction(func(tx *gorm.DB) error {
		userIDs, err := loadUsers(tx, dir, logger)
		if err != nil {
			return err
		}
		if err := loadSlugTable(tx, dir, "category.csv", logger, func(id int64, name, slug string) error {
			return tx.Create(&models.Category{ID: id, SlugRef: models.SlugRef{Name: name, Slug: slug}}).Error
		}); err != nil {
			return err
		}
		if err := loadSlugTable(tx, dir, "genre.csv", logger, func(id int64, name, slug string) error {
			return tx.Create(&models.Genre{ID: id, SlugRef: models.SlugRef{Name: name, Slug: slug}}).Error
		}); err != nil {
			return err
		}
		if err := loadTitles(tx, dir, logger); err != nil {
			return err
		}
		if err := loadTitleGenres(tx, dir, logger); err != nil {
			return err
		}
		if err := loadReviews(tx, dir, userIDs, logger); err != nil {
			return err
		}
		return loadComments(tx, dir, userIDs, logger)
	})
}

// readCSV returns the data rows of a fixture file, header stripped, or
// nil when the file does not exist.
func readCSV(dir, name string, logger *slog.Logger) ([][]string, error) {
	f, err := os.Open(filepath.Join(dir, name))
	if os.IsNotExist(err) {
		logger.Warn("Fixture file missing, skipping", "file", name)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	if len(rows) < 2 {
		return nil, nil
	}
	return rows[1:], nil
}

// loadUsers creates users with fresh UUIDs and returns the CSV-id to
// UUID mapping used by review and comment rows.
func loadUsers(tx *gorm.DB, dir string, logger *slog.Logger) (map[string]string, error) {
	rows, err := readCSV(dir, "users.csv", logger)
	if err != nil || rows == nil {
		return map[string]string{}, err
	}

	userIDs := make(map[string]string, len(rows))
	for _, row := range rows {
		if len(row) < 7 {
			return nil, fmt.Errorf("users.csv: malformed row %v", row)
		}
		user := models.User{
			ID:        uuid.New().String(),
			Username:  row[1],
			Email:     row[2],
			Role:      models.Role(row[3]),
			Bio:       row[4],
			FirstName: row[5],
			LastName:  row[6],
		}
		if !user.Role.Valid() {
			user.Role = models.RoleUser
		}
		if err := tx.Create(&user).Error; err != nil {
			return nil, fmt.Errorf("users.csv: create %q: %w", user.Username, err)
		}
		userIDs[row[0]] = user.ID
	}
	logger.Info("Imported users", "count", len(userIDs))
	return userIDs, nil
}

// loadSlugTable handles category.csv and genre.csv, which share the
// id,name,slug layout.
func loadSlugTable(tx *gorm.DB, dir, name string, logger *slog.Logger, create func(id int64, name, slug string) error) error {
	rows, err := readCSV(dir, name, logger)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 3 {
			return fmt.Errorf("%s: malformed row %v", name, row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("%s: bad id %q: %w", name, row[0], err)
		}
		if err := create(id, row[1], row[2]); err != nil {
			return fmt.Errorf("%s: create %q: %w", name, row[2], err)
		}
	}
	logger.Info("Imported slug records", "file", name, "count", len(rows))
	return nil
}

func loadTitles(tx *gorm.DB, dir string, logger *slog.Logger) error {
	rows, err := readCSV(dir, "titles.csv", logger)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 4 {
			return fmt.Errorf("titles.csv: malformed row %v", row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("titles.csv: bad id %q: %w", row[0], err)
		}
		year, err := strconv.Atoi(row[2])
		if err != nil {
			return fmt.Errorf("titles.csv: bad year %q: %w", row[2], err)
		}
		title := models.Title{ID: id, Name: row[1], Year: year}
		if row[3] != "" {
			categoryID, err := strconv.ParseInt(row[3], 10, 64)
			if err != nil {
				return fmt.Errorf("titles.csv: bad category id %q: %w", row[3], err)
			}
			title.CategoryID = &categoryID
		}
		if err := tx.Create(&title).Error; err != nil {
			return fmt.Errorf("titles.csv: create %q: %w", title.Name, err)
		}
	}
	logger.Info("Imported titles", "count", len(rows))
	return nil
}

func loadTitleGenres(tx *gorm.DB, dir string, logger *slog.Logger) error {
	rows, err := readCSV(dir, "genre_title.csv", logger)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 3 {
			return fmt.Errorf("genre_title.csv: malformed row %v", row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("genre_title.csv: bad id %q: %w", row[0], err)
		}
		titleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("genre_title.csv: bad title id %q: %w", row[1], err)
		}
		genreID, err := strconv.ParseInt(row[2], 10, 64)
		if err != nil {
			return fmt.Errorf("genre_title.csv: bad genre id %q: %w", row[2], err)
		}
		link := models.TitleGenre{ID: id, TitleID: &titleID, GenreID: &genreID}
		if err := tx.Create(&link).Error; err != nil {
			return fmt.Errorf("genre_title.csv: create link %d: %w", id, err)
		}
	}
	logger.Info("Imported title-genre links", "count", len(rows))
	return nil
}

func loadReviews(tx *gorm.DB, dir string, userIDs map[string]string, logger *slog.Logger) error {
	rows, err := readCSV(dir, "review.csv", logger)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 6 {
			return fmt.Errorf("review.csv: malformed row %v", row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("review.csv: bad id %q: %w", row[0], err)
		}
		titleID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("review.csv: bad title id %q: %w", row[1], err)
		}
		authorID, ok := userIDs[row[3]]
		if !ok {
			return fmt.Errorf("review.csv: unknown author id %q", row[3])
		}
		score, err := strconv.Atoi(row[4])
		if err != nil {
			return fmt.Errorf("review.csv: bad score %q: %w", row[4], err)
		}
		pubDate, err := time.Parse(time.RFC3339, row[5])
		if err != nil {
			return fmt.Errorf("review.csv: bad pub date %q: %w", row[5], err)
		}
		review := models.Review{
			ID:       id,
			TitleID:  titleID,
			Text:     row[2],
			AuthorID: authorID,
			Score:    score,
			PubDate:  pubDate,
		}
		if err := tx.Create(&review).Error; err != nil {
			return fmt.Errorf("review.csv: create %d: %w", id, err)
		}
	}
	logger.Info("Imported reviews", "count", len(rows))
	return nil
}

func loadComments(tx *gorm.DB, dir string, userIDs map[string]string, logger *slog.Logger) error {
	rows, err := readCSV(dir, "comments.csv", logger)
	if err != nil || rows == nil {
		return err
	}
	for _, row := range rows {
		if len(row) < 5 {
			return fmt.Errorf("comments.csv: malformed row %v", row)
		}
		id, err := strconv.ParseInt(row[0], 10, 64)
		if err != nil {
			return fmt.Errorf("comments.csv: bad id %q: %w", row[0], err)
		}
		reviewID, err := strconv.ParseInt(row[1], 10, 64)
		if err != nil {
			return fmt.Errorf("comments.csv: bad review id %q: %w", row[1], err)
		}
		authorID, ok := userIDs[row[3]]
		if !ok {
			return fmt.Errorf("comments.csv: unknown author id %q", row[3])
		}
		pubDate, err := time.Parse(time.RFC3339, row[4])
		if err != nil {
			return fmt.Errorf("comments.csv: bad pub date %q: %w", row[4], err)
		}
		comment := models.Comment{
			ID:       id,
			ReviewID: reviewID,
			Text:     row[2],
			AuthorID: authorID,
			PubDate:  pubDate,
		}
		if err := tx.Create(&comment).Error; err != nil {
			return fmt.Errorf("comments.csv: create %d: %w", id, err)
		}
	}
	logger.Info("Imported comments", "count", len(rows))
	return nil
}
