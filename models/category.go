package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category 代表刊登的固定分類
// 分類屬於參考資料，由種子資料建立，查詢端只讀不寫
type Category struct {
	gorm.Model

	ID   uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Slug string    `gorm:"type:varchar(64);not null;uniqueIndex:idx_categories_slug,where:deleted_at IS NULL;<-:create"`
	Name string    `gorm:"type:varchar(255);not null"`

	// 外鍵關聯
	Listings []Listing
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	c.ID = id
	return nil
}
