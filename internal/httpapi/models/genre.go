package models

type Genre struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	SlugRef `gorm:"embedded"`
}

func (Genre) TableName() string {
	return "genres"
}
