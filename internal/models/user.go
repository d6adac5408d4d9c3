package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User rows are owned by the auth service; this service only reads them to
// attribute transactions and saved cards.
type User struct {
	gorm.Model
	ID    uuid.UUID `gorm:"type:uuid;primary_key"`
	Email string    `gorm:"unique;not null"`
	Name  string    `gorm:"not null"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
