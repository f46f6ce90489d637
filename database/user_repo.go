package database

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/contesthub/contest-platform-backend/models"
)

type UserRepo struct {
	db *gorm.DB
}

func NewUserRepo(db *gorm.DB) *UserRepo {
	return &UserRepo{db}
}

// FindByEmail returns the user or nil when no row exists.
func (r *UserRepo) FindByEmail(email string) (*models.User, error) {
	var user models.User
	err := r.db.First(&user, "email = ?", email).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// FindAll returns all users from the database
func (r *UserRepo) FindAll() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("created_at DESC").Find(&users).Error
	return users, err
}

// UpsertLogin creates the user on first login with the participant role, or
// refreshes name/photo/last_login on a returning login. Role is never touched
// here. Returns the stored row.
func (r *UserRepo) UpsertLogin(user *models.User) (*models.User, error) {
	user.LastLogin = time.Now()
	err := r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "email"}},
		DoUpdates: clause.AssignmentColumns([]string{"name", "photo", "last_login"}),
	}).Create(user).Error
	if err != nil {
		return nil, err
	}
	return r.FindByEmail(user.Email)
}

// UpdateProfile updates the caller-editable profile fields.
func (r *UserRepo) UpdateProfile(email, name, photo, bio string) error {
	return r.db.Model(&models.User{}).
		Where("email = ?", email).
		Updates(map[string]any{"name": name, "photo": photo, "bio": bio}).Error
}

// UpdateRole sets a user's role. Admin-only at the API layer.
func (r *UserRepo) UpdateRole(email string, role models.Role) error {
	result := r.db.Model(&models.User{}).Where("email = ?", email).Update("role", role)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
