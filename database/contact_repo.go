package database

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/models"
)

type ContactRepo struct {
	db *gorm.DB
}

func NewContactRepo(db *gorm.DB) *ContactRepo {
	return &ContactRepo{db}
}

// Add appends a contact message.
func (r *ContactRepo) Add(message *models.ContactMessage) error {
	return r.db.Create(message).Error
}

// FindAll returns all contact messages, newest first.
func (r *ContactRepo) FindAll() ([]models.ContactMessage, error) {
	var messages []models.ContactMessage
	err := r.db.Order("received_at DESC").Find(&messages).Error
	return messages, err
}

// MarkRead flags a message as read.
func (r *ContactRepo) MarkRead(id uuid.UUID) error {
	result := r.db.Model(&models.ContactMessage{}).Where("id = ?", id).Update("is_read", true)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
