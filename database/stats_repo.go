package database

import (
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/models"
)

type StatsRepo struct {
	db *gorm.DB
}

func NewStatsRepo(db *gorm.DB) *StatsRepo {
	return &StatsRepo{db}
}

// AdminOverview is the global dashboard rollup.
type AdminOverview struct {
	TotalUsers    int64            `json:"totalUsers"`
	TotalContests int64            `json:"totalContests"`
	TotalOrders   int64            `json:"totalOrders"`
	TotalRevenue  int64            `json:"totalRevenue"`
	StatusCounts  map[string]int64 `json:"statusCounts"`
}

// WinnerRanking is one row of the all-time winners ranking.
type WinnerRanking struct {
	Email string `json:"email" gorm:"column:winner_email"`
	Name  string `json:"name" gorm:"column:winner_name"`
	Wins  int64  `json:"wins" gorm:"column:wins"`
}

// LeaderboardTotals are the all-time winner aggregates shown next to the
// recent-winners list.
type LeaderboardTotals struct {
	WinnerCount     int64 `json:"winnerCount"`
	TotalPrizeMoney int64 `json:"totalPrizeMoney"`
}

type statusCountRow struct {
	Status string `gorm:"column:status"`
	Count  int64  `gorm:"column:count"`
}

// AdminOverview computes the global counts, total revenue across all orders
// and the contest status histogram.
func (r *StatsRepo) AdminOverview() (*AdminOverview, error) {
	var overview AdminOverview

	if err := r.db.Model(&models.User{}).Count(&overview.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Contest{}).Count(&overview.TotalContests).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Order{}).Count(&overview.TotalOrders).Error; err != nil {
		return nil, err
	}
	if err := r.db.Model(&models.Order{}).
		Select("COALESCE(SUM(entry_fee), 0)").
		Scan(&overview.TotalRevenue).Error; err != nil {
		return nil, err
	}

	var rows []statusCountRow
	if err := r.db.Model(&models.Contest{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	overview.StatusCounts = make(map[string]int64, len(rows))
	for _, row := range rows {
		overview.StatusCounts[row.Status] = row.Count
	}

	return &overview, nil
}

// RecentWinners returns the limit most recently completed contests ordered by
// declaration time, plus the all-time totals.
func (r *StatsRepo) RecentWinners(limit int) ([]models.Contest, *LeaderboardTotals, error) {
	var winners []models.Contest
	err := r.db.Where("status = ?", models.ContestCompleted).
		Order("winner_declared_at DESC").
		Limit(limit).
		Find(&winners).Error
	if err != nil {
		return nil, nil, err
	}

	var totals LeaderboardTotals
	if err := r.db.Model(&models.Contest{}).
		Where("status = ?", models.ContestCompleted).
		Count(&totals.WinnerCount).Error; err != nil {
		return nil, nil, err
	}
	if err := r.db.Model(&models.Contest{}).
		Where("status = ?", models.ContestCompleted).
		Select("COALESCE(SUM(prize_money), 0)").
		Scan(&totals.TotalPrizeMoney).Error; err != nil {
		return nil, nil, err
	}

	return winners, &totals, nil
}

// TopWinners ranks winners by number of distinct contests won, descending.
func (r *StatsRepo) TopWinners() ([]WinnerRanking, error) {
	var rankings []WinnerRanking
	err := r.db.Model(&models.Contest{}).
		Select("winner_email, MAX(winner_name) AS winner_name, COUNT(*) AS wins").
		Where("status = ? AND winner_email IS NOT NULL", models.ContestCompleted).
		Group("winner_email").
		Order("wins DESC").
		Scan(&rankings).Error
	return rankings, err
}
