package database

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
)

type ContestRepo struct {
	db *gorm.DB
}

func NewContestRepo(db *gorm.DB) *ContestRepo {
	return &ContestRepo{db}
}

// FindPage returns one page of publicly visible contests (Confirmed or
// Completed), optionally filtered by category, newest first, plus the total
// count for the filter.
func (r *ContestRepo) FindPage(category string, page, limit int) ([]models.Contest, int64, error) {
	query := r.db.Model(&models.Contest{}).
		Where("status IN ?", []models.ContestStatus{models.ContestConfirmed, models.ContestCompleted})
	if category != "" {
		query = query.Where("LOWER(category) = LOWER(?)", category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var contests []models.Contest
	err := query.Order("created_at DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&contests).Error
	return contests, total, err
}

// FindByID returns the contest or nil when no row exists.
func (r *ContestRepo) FindByID(id uuid.UUID) (*models.Contest, error) {
	var contest models.Contest
	err := r.db.Preload("Participants").First(&contest, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &contest, nil
}

// FindByCreator returns all contests recorded under the creator's email.
func (r *ContestRepo) FindByCreator(email string) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.Where("creator_email = ?", email).Order("created_at DESC").Find(&contests).Error
	return contests, err
}

// FindWonByEmail returns the completed contests whose declared winner is email.
func (r *ContestRepo) FindWonByEmail(email string) ([]models.Contest, error) {
	var contests []models.Contest
	err := r.db.Where("status = ? AND winner_email = ?", models.ContestCompleted, email).
		Order("winner_declared_at DESC").
		Find(&contests).Error
	return contests, err
}

// Add inserts a new contest into the database
func (r *ContestRepo) Add(contest *models.Contest) error {
	return r.db.Create(contest).Error
}

// Update saves the content fields of a contest. Lifecycle and creator fields
// are controlled by dedicated methods and never written here.
func (r *ContestRepo) Update(contest *models.Contest) error {
	return r.db.Model(&models.Contest{}).
		Where("id = ?", contest.ID).
		Updates(map[string]any{
			"name":             contest.Name,
			"description":      contest.Description,
			"image":            contest.Image,
			"category":         contest.Category,
			"prize_money":      contest.PrizeMoney,
			"entry_fee":        contest.EntryFee,
			"deadline":         contest.Deadline,
			"task_instruction": contest.TaskInstruction,
		}).Error
}

// UpdateStatus moves a Pending contest to Confirmed or Rejected and records
// the approver. The WHERE on status makes the transition atomic; zero rows
// affected means the contest was no longer Pending.
func (r *ContestRepo) UpdateStatus(id uuid.UUID, status models.ContestStatus, approver string, at time.Time) error {
	result := r.db.Model(&models.Contest{}).
		Where("id = ? AND status = ?", id, models.ContestPending).
		Updates(map[string]any{
			"status":      status,
			"approved_by": approver,
			"approved_at": at,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return errs.NewInvalidStateError("contest is no longer Pending")
	}
	return nil
}

// DeclareWinner sets the winner and moves the contest to Completed, marking
// the referenced submission as Winner in the same transaction. The guarded
// UPDATE keeps a concurrent second declaration from overwriting the first.
func (r *ContestRepo) DeclareWinner(id uuid.UUID, winner models.Winner) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Model(&models.Contest{}).
			Where("id = ? AND status = ? AND winner_email IS NULL", id, models.ContestConfirmed).
			Updates(map[string]any{
				"status":               models.ContestCompleted,
				"winner_name":          winner.Name,
				"winner_email":         winner.Email,
				"winner_photo":         winner.Photo,
				"winner_submission_id": winner.SubmissionID,
				"winner_declared_at":   winner.DeclaredAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return errs.NewConflictError("winner already declared")
		}
		if winner.SubmissionID != nil {
			if err := tx.Model(&models.Submission{}).
				Where("id = ?", winner.SubmissionID).
				Update("status", models.SubmissionWinner).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a contest from the database by id
func (r *ContestRepo) Delete(id uuid.UUID) error {
	return r.db.Delete(&models.Contest{}, "id = ?", id).Error
}
