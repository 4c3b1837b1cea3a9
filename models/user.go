package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User 代表刊登系統中的使用者
// Subject 是外部身份提供者核發的識別字串，使用者第一次通過驗證時建立，建立後不可變更
type User struct {
	gorm.Model

	ID       uuid.UUID `gorm:"type:uuid;primaryKey;<-:create"`
	Subject  string    `gorm:"type:text;not null;uniqueIndex:idx_users_subject,where:deleted_at IS NULL;<-:create"`
	Username string    `gorm:"type:varchar(255)"`
	Email    string    `gorm:"type:varchar(255)"`

	// 外鍵關聯
	Listings []Listing `gorm:"foreignKey:OwnerID"`
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID != uuid.Nil {
		return nil
	}
	id, err := uuid.NewV7()
	if err != nil {
		return err
	}
	u.ID = id
	return nil
}
