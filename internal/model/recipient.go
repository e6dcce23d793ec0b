package model

import "time"

// Recipient is one registration of the address that receives door alerts.
// Rows are append-only; the active recipient is the most recently updated
// row with IsActive set.
type Recipient struct {
	ID        uint      `json:"id" gorm:"primaryKey"`
	Email     string    `json:"email" gorm:"size:255;not null"`
	IsActive  bool      `json:"isActive" gorm:"not null;index"`
	UpdatedAt time.Time `json:"updatedAt" gorm:"autoUpdateTime;index"`
}
