package models

import (
	"time"

	"github.com/google/uuid"
)

// Order is the durable record of one successful payment/participation event.
// TransactionID is the payment provider's payment-intent id; its unique index
// is what makes settlement idempotent under concurrent retries.
type Order struct {
	ID            uuid.UUID `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ContestID     uuid.UUID `json:"contestId" gorm:"type:uuid;not null;index"`
	TransactionID string    `json:"transactionId" gorm:"type:text;not null;uniqueIndex"`
	Email         string    `json:"email" gorm:"type:text;not null;index"`
	Status        string    `json:"status" gorm:"type:text;not null;default:'Paid'"`

	// Contest snapshot at time of purchase.
	ContestName  string `json:"contestName" gorm:"type:text"`
	Category     string `json:"category" gorm:"type:text"`
	EntryFee     int64  `json:"entryFee" gorm:"type:bigint;not null;default:0"`
	Image        string `json:"image" gorm:"type:text"`
	CreatorEmail string `json:"creatorEmail" gorm:"type:text;index"`

	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
