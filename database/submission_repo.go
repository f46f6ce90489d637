package database

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/models"
)

type SubmissionRepo struct {
	db *gorm.DB
}

func NewSubmissionRepo(db *gorm.DB) *SubmissionRepo {
	return &SubmissionRepo{db}
}

// Add inserts a new submission. The composite unique index on
// (contest_id, email) rejects a second submission from the same participant.
func (r *SubmissionRepo) Add(submission *models.Submission) error {
	return r.db.Create(submission).Error
}

// FindByID returns the submission or nil when no row exists.
func (r *SubmissionRepo) FindByID(id uuid.UUID) (*models.Submission, error) {
	var submission models.Submission
	err := r.db.First(&submission, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &submission, nil
}

// FindByContest returns all submissions for a contest, newest first.
func (r *SubmissionRepo) FindByContest(contestID uuid.UUID) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.Where("contest_id = ?", contestID).Order("submitted_at DESC").Find(&submissions).Error
	return submissions, err
}

// Exists reports whether the participant already submitted for the contest.
func (r *SubmissionRepo) Exists(contestID uuid.UUID, email string) (bool, error) {
	var count int64
	err := r.db.Model(&models.Submission{}).
		Where("contest_id = ? AND email = ?", contestID, email).
		Count(&count).Error
	return count > 0, err
}

// FindByCreator returns submissions across every contest the creator owns.
func (r *SubmissionRepo) FindByCreator(creatorEmail string) ([]models.Submission, error) {
	var submissions []models.Submission
	err := r.db.
		Joins("JOIN contests ON contests.id = submissions.contest_id").
		Where("contests.creator_email = ?", creatorEmail).
		Order("submissions.submitted_at DESC").
		Find(&submissions).Error
	return submissions, err
}
