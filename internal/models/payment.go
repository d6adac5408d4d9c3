package models

import (
	"time"

	"github.com/google/uuid"
)

// Payment records one successful finalization. Written only inside the
// finalize transaction, never updated afterwards.
type Payment struct {
	ID            uuid.UUID    `gorm:"type:uuid;default:uuid_generate_v4();primary_key"`
	TransactionID string       `gorm:"size:20;not null;index"`
	Transaction   *Transaction `gorm:"foreignKey:TransactionID"`
	GatewayTxnID  string       `gorm:"not null"`
	Method        string       `gorm:"not null"`
	Message       string
	PaidAt        time.Time `gorm:"not null"`
	Provider      string    `gorm:"not null;default:'eghl'"`
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
