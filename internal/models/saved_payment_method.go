package models

import (
	"time"

	"github.com/google/uuid"
)

// SavedPaymentMethod is a tokenized card returned by the gateway. At most one
// row per (user, masked number, expiry); tokens rotate, so upserts refresh the
// token value and LastUsedAt.
type SavedPaymentMethod struct {
	ID         uuid.UUID `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	UserID     uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_user_card"`
	User       *User     `gorm:"foreignKey:UserID"`
	Token      string    `gorm:"not null"`
	TokenType  string    `gorm:"not null"`
	CardNoMask string    `gorm:"not null;uniqueIndex:idx_user_card"`
	CardExp    string    `gorm:"size:6;not null;uniqueIndex:idx_user_card"`
	CardBrand  string
	LastUsedAt time.Time `gorm:"not null"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
