package models

import "time"

type Role string

const (
	RoleParticipant Role = "participant"
	RoleCreator     Role = "contestCreator"
	RoleAdmin       Role = "admin"
)

// ValidRole reports whether r is one of the assignable roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleParticipant, RoleCreator, RoleAdmin:
		return true
	}
	return false
}

// User is keyed by the email claim from the identity provider. Rows are
// upserted on first login with the participant role.
type User struct {
	Email     string    `json:"email" gorm:"type:text;primaryKey;not null"`
	Name      string    `json:"name" gorm:"type:text"`
	Photo     string    `json:"photo" gorm:"type:text"`
	Bio       string    `json:"bio" gorm:"type:text"`
	Role      Role      `json:"role" gorm:"type:text;not null;default:'participant'"`
	CreatedAt time.Time `json:"createdAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
	LastLogin time.Time `json:"lastLogin" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}

// CreatorRequest is a pending promotion request; an admin acting on it
// deletes the row.
type CreatorRequest struct {
	Email       string    `json:"email" gorm:"type:text;primaryKey;not null"`
	RequestedAt time.Time `json:"requestedAt" gorm:"type:timestamp;not null;default:CURRENT_TIMESTAMP"`
}
