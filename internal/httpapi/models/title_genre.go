package models

// explicit join model so the association rows get their own id and
// nullable sides (either end may be deleted without dropping the row)
type TitleGenre struct {
	ID      int64  `json:"id" gorm:"primaryKey;autoIncrement"`
	TitleID *int64 `json:"title_id" gorm:"index"`
	GenreID *int64 `json:"genre_id" gorm:"index"`
}

func (TitleGenre) TableName() string {
	return "title_genres"
}
