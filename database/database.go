package database

import (
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/models"
)

type Database struct {
	userRepo           *UserRepo
	contestRepo        *ContestRepo
	orderRepo          *OrderRepo
	submissionRepo     *SubmissionRepo
	creatorRequestRepo *CreatorRequestRepo
	contactRepo        *ContactRepo
	statsRepo          *StatsRepo
}

// New initializes a new Database struct with each repository using a shared GORM database instance
func New(db *gorm.DB) Database {
	return Database{
		userRepo:           NewUserRepo(db),
		contestRepo:        NewContestRepo(db),
		orderRepo:          NewOrderRepo(db),
		submissionRepo:     NewSubmissionRepo(db),
		creatorRequestRepo: NewCreatorRequestRepo(db),
		contactRepo:        NewContactRepo(db),
		statsRepo:          NewStatsRepo(db),
	}
}

// Migrate creates or updates the schema for every model, including the unique
// indexes settlement and submissions rely on.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.Contest{},
		&models.ContestParticipant{},
		&models.Order{},
		&models.Submission{},
		&models.CreatorRequest{},
		&models.ContactMessage{},
	)
}

// Accessor methods for each repository

func (d Database) UserRepo() *UserRepo {
	return d.userRepo
}

func (d Database) ContestRepo() *ContestRepo {
	return d.contestRepo
}

func (d Database) OrderRepo() *OrderRepo {
	return d.orderRepo
}

func (d Database) SubmissionRepo() *SubmissionRepo {
	return d.submissionRepo
}

func (d Database) CreatorRequestRepo() *CreatorRequestRepo {
	return d.creatorRequestRepo
}

func (d Database) ContactRepo() *ContactRepo {
	return d.contactRepo
}

func (d Database) StatsRepo() *StatsRepo {
	return d.statsRepo
}
