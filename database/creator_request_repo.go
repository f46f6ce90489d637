package database

import (
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/models"
)

type CreatorRequestRepo struct {
	db *gorm.DB
}

func NewCreatorRequestRepo(db *gorm.DB) *CreatorRequestRepo {
	return &CreatorRequestRepo{db}
}

// Add inserts a promotion request; a duplicate email fails on the primary key.
func (r *CreatorRequestRepo) Add(request *models.CreatorRequest) error {
	return r.db.Create(request).Error
}

// FindAll returns all pending creator requests, oldest first.
func (r *CreatorRequestRepo) FindAll() ([]models.CreatorRequest, error) {
	var requests []models.CreatorRequest
	err := r.db.Order("requested_at ASC").Find(&requests).Error
	return requests, err
}

// Delete removes the request once an admin has acted on it.
func (r *CreatorRequestRepo) Delete(email string) error {
	return r.db.Delete(&models.CreatorRequest{}, "email = ?", email).Error
}
