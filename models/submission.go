package models

import (
	"time"

	"github.com/google/uuid"
)

type SubmissionStatus string

const (
	SubmissionPending SubmissionStatus = "Pending"
	SubmissionWinner  SubmissionStatus = "Winner"
)

// Submission is a participant's task entry for a contest. One submission per
// (contest, participant) is enforced by the composite unique index.
type Submission struct {
	ID          uuid.UUID        `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	ContestID   uuid.UUID        `json:"contestId" gorm:"type:uuid;not null;uniqueIndex:idx_submission_contest_email"`
	Email       string           `json:"email" gorm:"type:text;not null;uniqueIndex:idx_submission_contest_email"`
	Name        string           `json:"name" gorm:"type:text"`
	Photo       string           `json:"photo" gorm:"type:text"`
	Task        string           `json:"task" gorm:"type:text;not null"`
	Status      SubmissionStatus `json:"status" gorm:"type:text;not null;default:'Pending'"`
	SubmittedAt time.Time        `json:"submittedAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
