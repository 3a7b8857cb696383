package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SyncRecord is one persisted sync audit event.
type SyncRecord struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	EventID   string    `json:"event_id" gorm:"uniqueIndex"`
	Type      string    `json:"type" gorm:"index;not null"`
	Data      string    `json:"data"` // JSON payload as delivered
	EmittedAt time.Time `json:"emitted_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (r *SyncRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.New().String()
	}
	return nil
}
