package models

import (
	"time"

	"github.com/google/uuid"
)

// ContactMessage is an append-only message from the public contact form.
type ContactMessage struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name       string    `json:"name" gorm:"type:text;not null"`
	Email      string    `json:"email" gorm:"type:text;not null"`
	Message    string    `json:"message" gorm:"type:text;not null"`
	ReceivedAt time.Time `json:"receivedAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	IsRead     bool      `json:"isRead" gorm:"type:boolean;not null;default:false"`
}
