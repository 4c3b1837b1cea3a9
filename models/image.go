package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Image 代表刊登的圖片
// 部分唯一索引保證每個刊登最多只有一張主圖
type Image struct {
	gorm.Model

	ID        uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	ListingID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_images_listing_primary,where:is_primary AND deleted_at IS NULL;<-:create"`
	Url       string    `gorm:"type:text;not null;<-:create"`
	IsPrimary bool      `gorm:"not null;default:false"`

	// 外鍵關聯
	Listing *Listing
}

func (i *Image) BeforeCreate(tx *gorm.DB) error {
	if i.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	i.ID = id
	return nil
}
