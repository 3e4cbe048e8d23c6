package models

type Category struct {
	ID      int64 `json:"id" gorm:"primaryKey;autoIncrement"`
	SlugRef `gorm:"embedded"`
}

func (Category) TableName() string {
	return "categories"
}
