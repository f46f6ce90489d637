package models

import (
	"time"

	"github.com/google/uuid"
)

// ContestStatus is the lifecycle state of a contest.
type ContestStatus string

const (
	ContestPending   ContestStatus = "Pending"
	ContestConfirmed ContestStatus = "Confirmed"
	ContestRejected  ContestStatus = "Rejected"
	ContestCompleted ContestStatus = "Completed"
)

// IsTerminal reports whether no further transitions are allowed from s.
func (s ContestStatus) IsTerminal() bool {
	return s == ContestRejected || s == ContestCompleted
}

// Winner holds the declared winner of a completed contest. It is embedded in
// the contest row so that winner-present-iff-completed is a single record.
type Winner struct {
	Name         string     `json:"name" gorm:"column:winner_name;type:text"`
	Email        string     `json:"email" gorm:"column:winner_email;type:text"`
	Photo        string     `json:"photo,omitempty" gorm:"column:winner_photo;type:text"`
	SubmissionID *uuid.UUID `json:"submissionId,omitempty" gorm:"column:winner_submission_id;type:uuid"`
	DeclaredAt   time.Time  `json:"declaredAt" gorm:"column:winner_declared_at;type:timestamp"`
}

// Contest represents a competition with a lifecycle, entry fee, prize and
// participant set.
type Contest struct {
	ID               uuid.UUID            `json:"id" gorm:"type:uuid;primaryKey;default:gen_random_uuid();not null"`
	Name             string               `json:"name" gorm:"type:text;not null"`
	Description      string               `json:"description" gorm:"type:text"`
	Image            string               `json:"image" gorm:"type:text"`
	Category         string               `json:"category" gorm:"type:text;index"`
	PrizeMoney       int64                `json:"prizeMoney" gorm:"type:bigint;not null;default:0"`
	EntryFee         int64                `json:"entryFee" gorm:"type:bigint;not null;default:0"`
	CreatorName      string               `json:"creatorName" gorm:"type:text"`
	CreatorEmail     string               `json:"creatorEmail" gorm:"type:text;not null;index"`
	ParticipantCount int                  `json:"participantCount" gorm:"type:integer;not null;default:0"`
	Deadline         *time.Time           `json:"deadline,omitempty" gorm:"type:timestamp"`
	TaskInstruction  string               `json:"taskInstruction" gorm:"type:text"`
	Status           ContestStatus        `json:"status" gorm:"type:text;not null;default:'Pending';index"`
	Winner           *Winner              `json:"winner,omitempty" gorm:"embedded"`
	ApprovedBy       *string              `json:"approvedBy,omitempty" gorm:"type:text"`
	ApprovedAt       *time.Time           `json:"approvedAt,omitempty" gorm:"type:timestamp"`
	CreatedAt        time.Time            `json:"createdAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	Participants     []ContestParticipant `json:"participants,omitempty" gorm:"foreignKey:ContestID;references:ID;constraint:OnDelete:CASCADE"`
}

// ContestParticipant is one member of a contest's participant set. The
// composite primary key gives duplicate adds no-op semantics.
type ContestParticipant struct {
	ContestID uuid.UUID `json:"contestId" gorm:"type:uuid;primaryKey"`
	Email     string    `json:"email" gorm:"type:text;primaryKey"`
	JoinedAt  time.Time `json:"joinedAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
