package api

import (
	"math"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/database"
	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
)

// recentWinnerCount is how many declared winners the leaderboard shows.
const recentWinnerCount = 6

type statsOrderFinder interface {
	FindByEmail(email string) ([]models.Order, error)
	FindByCreator(creatorEmail string) ([]models.Order, error)
}

type statsContestFinder interface {
	FindByCreator(email string) ([]models.Contest, error)
	FindWonByEmail(email string) ([]models.Contest, error)
}

type statsStore interface {
	AdminOverview() (*database.AdminOverview, error)
	RecentWinners(limit int) ([]models.Contest, *database.LeaderboardTotals, error)
	TopWinners() ([]database.WinnerRanking, error)
}

type statsHandler struct {
	responder Responder
	logger    zerolog.Logger
	orders    statsOrderFinder
	contests  statsContestFinder
	stats     statsStore
}

func newStatsHandler(orders statsOrderFinder, contests statsContestFinder, stats statsStore) statsHandler {
	logger := log.With().Str("handlerName", "statsHandler").Logger()

	return statsHandler{
		responder: NewResponder(logger),
		logger:    logger,
		orders:    orders,
		contests:  contests,
		stats:     stats,
	}
}

// ParticipantStats is the per-participant dashboard rollup.
type ParticipantStats struct {
	Participations int            `json:"participations"`
	Wins           int            `json:"wins"`
	WinPercentage  float64        `json:"winPercentage"`
	Categories     map[string]int `json:"categories"`
}

// winPercentage is wins over participations as a percentage rounded to two
// decimals, with 0 when there are no participations.
func winPercentage(wins, participations int) float64 {
	if participations == 0 {
		return 0
	}
	return math.Round(float64(wins)/float64(participations)*100*100) / 100
}

// participantStats computes the caller's participation rollup from their
// orders and won contests.
func (h statsHandler) participantStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		orders, err := h.orders.FindByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find orders", "orders", err))
			return
		}
		won, err := h.contests.FindWonByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find won contests", "contests", err))
			return
		}

		categories := make(map[string]int)
		for _, order := range orders {
			categories[order.Category]++
		}

		h.responder.WriteJSON(w, ParticipantStats{
			Participations: len(orders),
			Wins:           len(won),
			WinPercentage:  winPercentage(len(won), len(orders)),
			Categories:     categories,
		})
	}
}

// CreatorStats is the per-creator dashboard rollup.
type CreatorStats struct {
	TotalContests     int            `json:"totalContests"`
	TotalRevenue      int64          `json:"totalRevenue"`
	TotalParticipants int            `json:"totalParticipants"`
	StatusCounts      map[string]int `json:"statusCounts"`
}

// creatorStats sums revenue and participation across the caller's contests.
func (h statsHandler) creatorStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		contests, err := h.contests.FindByCreator(caller.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contests", "contests", err))
			return
		}
		orders, err := h.orders.FindByCreator(caller.Email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find orders", "orders", err))
			return
		}

		stats := CreatorStats{
			TotalContests:     len(contests),
			TotalParticipants: len(orders),
			StatusCounts:      make(map[string]int),
		}
		for _, order := range orders {
			stats.TotalRevenue += order.EntryFee
		}
		for _, contest := range contests {
			stats.StatusCounts[string(contest.Status)]++
		}

		h.responder.WriteJSON(w, stats)
	}
}

// adminStats returns the global platform rollup.
func (h statsHandler) adminStats() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		overview, err := h.stats.AdminOverview()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("compute admin stats", "stats", err))
			return
		}

		h.responder.WriteJSON(w, overview)
	}
}

// RecentWinner is one leaderboard entry.
type RecentWinner struct {
	ContestID   string         `json:"contestId"`
	ContestName string         `json:"contestName"`
	PrizeMoney  int64          `json:"prizeMoney"`
	Winner      *models.Winner `json:"winner"`
}

// Leaderboard is the recent-winners view plus all-time totals.
type Leaderboard struct {
	Winners []RecentWinner             `json:"winners"`
	Totals  database.LeaderboardTotals `json:"totals"`
}

// winnersLeaderboard lists the most recent declared winners with all-time
// winner count and prize money awarded.
func (h statsHandler) winnersLeaderboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contests, totals, err := h.stats.RecentWinners(recentWinnerCount)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find recent winners", "contests", err))
			return
		}

		winners := make([]RecentWinner, 0, len(contests))
		for _, contest := range contests {
			winners = append(winners, RecentWinner{
				ContestID:   contest.ID.String(),
				ContestName: contest.Name,
				PrizeMoney:  contest.PrizeMoney,
				Winner:      contest.Winner,
			})
		}

		h.responder.WriteJSON(w, Leaderboard{Winners: winners, Totals: *totals})
	}
}

// topWinnersRanking ranks winners by distinct contests won, descending.
func (h statsHandler) topWinnersRanking() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rankings, err := h.stats.TopWinners()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("rank winners", "contests", err))
			return
		}

		h.responder.WriteJSON(w, rankings)
	}
}

// myWinningContests lists the completed contests the caller won.
func (h statsHandler) myWinningContests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		won, err := h.contests.FindWonByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find won contests", "contests", err))
			return
		}

		h.responder.WriteJSON(w, won)
	}
}
