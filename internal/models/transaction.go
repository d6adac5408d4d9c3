package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type TransactionStatus string

const (
	StatusPending TransactionStatus = "pending"
	StatusSuccess TransactionStatus = "success"
	StatusFailed  TransactionStatus = "failed"
)

const (
	CreatedAsUser  = "user"
	CreatedAsGuest = "guest"
)

// Transaction is one donation attempt. Its ID doubles as the gateway's
// PaymentID, which is capped at 20 characters.
type Transaction struct {
	ID        string            `gorm:"size:20;primary_key"`
	Amount    int64             `gorm:"not null"`
	Status    TransactionStatus `gorm:"not null;default:'pending';index"`
	UserID    *uuid.UUID        `gorm:"type:uuid;index"`
	User      *User             `gorm:"foreignKey:UserID"`
	CreatedAs string            `gorm:"not null;default:'guest'"`
	Name      string            `gorm:"not null"`
	Email     string            `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (transaction *Transaction) BeforeCreate(tx *gorm.DB) (err error) {
	if transaction.ID == "" {
		transaction.ID = NewTransactionID()
	}
	return
}

// NewTransactionID returns a 20-character gateway-safe identifier.
func NewTransactionID() string {
	hex := strings.ReplaceAll(uuid.New().String(), "-", "")
	return "g" + hex[:19]
}
