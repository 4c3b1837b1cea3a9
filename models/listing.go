package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ListingStatus 代表刊登的狀態
type ListingStatus string

const (
	ListingStatusActive   ListingStatus = "active"
	ListingStatusInactive ListingStatus = "inactive"
)

// Listing 代表刊登系統中的商品
// 包含商品資訊、價格（最小貨幣單位的正整數）、城市與分類等資訊
// (city, status) 的複合索引和 title 的索引讓常見的篩選組合不需要全表掃描
type Listing struct {
	gorm.Model

	ID          uuid.UUID     `gorm:"type:uuid;primaryKey;<-:create"`
	OwnerID     *uuid.UUID    `gorm:"type:uuid;<-:create"`
	CategoryID  *uuid.UUID    `gorm:"type:uuid;index"`
	Title       string        `gorm:"type:varchar(255);not null;index:idx_listings_title"`
	Description string        `gorm:"type:text;not null"`
	Price       int64         `gorm:"type:bigint;not null;check:price > 0"`
	Status      ListingStatus `gorm:"type:varchar(16);not null;default:'active';index:idx_listings_city_status,priority:2"`
	City        string        `gorm:"type:varchar(255);not null;default:'';index:idx_listings_city_status,priority:1"`

	// 外鍵關聯
	Owner    *User `gorm:"foreignKey:OwnerID"`
	Category *Category
	Images   []Image
}

func (l *Listing) BeforeCreate(tx *gorm.DB) error {
	if l.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	l.ID = id
	return nil
}
