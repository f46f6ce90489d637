package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contesthub/contest-platform-backend/models"
)

type OrderRepo struct {
	db *gorm.DB
}

func NewOrderRepo(db *gorm.DB) *OrderRepo {
	return &OrderRepo{db}
}

// FindByTransactionID returns the order for the external transaction id, or
// nil when no settlement happened yet.
func (r *OrderRepo) FindByTransactionID(transactionID string) (*models.Order, error) {
	var order models.Order
	err := r.db.First(&order, "transaction_id = ?", transactionID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// FindByEmail returns all orders placed by a participant.
func (r *OrderRepo) FindByEmail(email string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("email = ?", email).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// FindByCreator returns all orders across contests created by the creator,
// matched on the snapshotted creator email.
func (r *OrderRepo) FindByCreator(creatorEmail string) ([]models.Order, error) {
	var orders []models.Order
	err := r.db.Where("creator_email = ?", creatorEmail).Order("created_at DESC").Find(&orders).Error
	return orders, err
}

// Settle inserts the order and records the participation in one transaction.
// The unique index on transaction_id is the idempotency guarantee: a
// concurrent duplicate insert hits ON CONFLICT DO NOTHING and settles
// nothing. Returns whether this call created the order.
func (r *OrderRepo) Settle(order *models.Order) (bool, error) {
	var created bool
	err := r.db.Transaction(func(tx *gorm.DB) error {
		result := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "transaction_id"}},
			DoNothing: true,
		}).Create(order)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			// Another retry won the race; leave everything untouched.
			return nil
		}
		created = true

		participant := models.ContestParticipant{
			ContestID: order.ContestID,
			Email:     order.Email,
			JoinedAt:  time.Now(),
		}
		addResult := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&participant)
		if addResult.Error != nil {
			return addResult.Error
		}
		if addResult.RowsAffected > 0 {
			if err := tx.Model(&models.Contest{}).
				Where("id = ?", order.ContestID).
				UpdateColumn("participant_count", gorm.Expr("participant_count + 1")).Error; err != nil {
				return err
			}
		}
		return nil
	})
	return created, err
}
