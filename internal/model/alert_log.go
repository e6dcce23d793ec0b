package model

import (
	"time"

	"gorm.io/datatypes"
)

// AlertLog is the audit record of one hardware signal. EmailSent is the only
// field that changes after insert, and only from false to true.
type AlertLog struct {
	ID         uint           `json:"id" gorm:"primaryKey"`
	DoorStatus string         `json:"doorStatus" gorm:"not null"`
	IsAlert    bool           `json:"isAlert" gorm:"not null"`
	Duration   *int           `json:"duration"`
	RawPayload datatypes.JSON `json:"rawPayload"`
	EmailSent  bool           `json:"emailSent" gorm:"not null"`
	Timestamp  time.Time      `json:"timestamp" gorm:"autoCreateTime;index"`
}
