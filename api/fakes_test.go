package api

import (
	"context"
	"errors"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/database"
	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
	"github.com/contesthub/contest-platform-backend/services"
)

// In-memory fakes for the store and provider interfaces the handlers accept.
// They mirror the repository semantics, including the uniqueness guarantees
// the real schema enforces.

type fakeVerifier struct {
	emails map[string]string // token -> verified email
}

func (f fakeVerifier) VerifyToken(_ context.Context, token string) (string, error) {
	if email, ok := f.emails[token]; ok {
		return email, nil
	}
	return "", errors.New("invalid token")
}

type fakeUserStore struct {
	users map[string]*models.User
}

func newFakeUserStore(users ...*models.User) *fakeUserStore {
	store := &fakeUserStore{users: make(map[string]*models.User)}
	for _, user := range users {
		store.users[user.Email] = user
	}
	return store
}

func (f *fakeUserStore) FindByEmail(email string) (*models.User, error) {
	return f.users[email], nil
}

func (f *fakeUserStore) FindAll() ([]models.User, error) {
	var all []models.User
	for _, user := range f.users {
		all = append(all, *user)
	}
	return all, nil
}

func (f *fakeUserStore) UpsertLogin(user *models.User) (*models.User, error) {
	if existing, ok := f.users[user.Email]; ok {
		existing.Name = user.Name
		existing.Photo = user.Photo
		existing.LastLogin = time.Now()
		return existing, nil
	}
	user.Role = models.RoleParticipant
	user.CreatedAt = time.Now()
	user.LastLogin = time.Now()
	f.users[user.Email] = user
	return user, nil
}

func (f *fakeUserStore) UpdateProfile(email, name, photo, bio string) error {
	if user, ok := f.users[email]; ok {
		user.Name = name
		user.Photo = photo
		user.Bio = bio
	}
	return nil
}

func (f *fakeUserStore) UpdateRole(email string, role models.Role) error {
	user, ok := f.users[email]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	user.Role = role
	return nil
}

type fakeCreatorRequestStore struct {
	requests map[string]*models.CreatorRequest
}

func newFakeCreatorRequestStore() *fakeCreatorRequestStore {
	return &fakeCreatorRequestStore{requests: make(map[string]*models.CreatorRequest)}
}

func (f *fakeCreatorRequestStore) Add(request *models.CreatorRequest) error {
	if _, ok := f.requests[request.Email]; ok {
		return errors.New("duplicate key value violates unique constraint")
	}
	request.RequestedAt = time.Now()
	f.requests[request.Email] = request
	return nil
}

func (f *fakeCreatorRequestStore) FindAll() ([]models.CreatorRequest, error) {
	var all []models.CreatorRequest
	for _, request := range f.requests {
		all = append(all, *request)
	}
	return all, nil
}

func (f *fakeCreatorRequestStore) Delete(email string) error {
	delete(f.requests, email)
	return nil
}

type fakeSubmissionStore struct {
	submissions map[uuid.UUID]*models.Submission
	contests    map[uuid.UUID]*models.Contest
}

func newFakeSubmissionStore() *fakeSubmissionStore {
	return &fakeSubmissionStore{submissions: make(map[uuid.UUID]*models.Submission)}
}

func (f *fakeSubmissionStore) Add(submission *models.Submission) error {
	for _, existing := range f.submissions {
		if existing.ContestID == submission.ContestID && existing.Email == submission.Email {
			return errors.New("duplicate key value violates unique constraint")
		}
	}
	submission.SubmittedAt = time.Now()
	f.submissions[submission.ID] = submission
	return nil
}

func (f *fakeSubmissionStore) FindByID(id uuid.UUID) (*models.Submission, error) {
	return f.submissions[id], nil
}

func (f *fakeSubmissionStore) FindByContest(contestID uuid.UUID) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range f.submissions {
		if submission.ContestID == contestID {
			result = append(result, *submission)
		}
	}
	return result, nil
}

func (f *fakeSubmissionStore) Exists(contestID uuid.UUID, email string) (bool, error) {
	for _, submission := range f.submissions {
		if submission.ContestID == contestID && submission.Email == email {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeSubmissionStore) FindByCreator(creatorEmail string) ([]models.Submission, error) {
	var result []models.Submission
	for _, submission := range f.submissions {
		if contest, ok := f.contests[submission.ContestID]; ok && contest.CreatorEmail == creatorEmail {
			result = append(result, *submission)
		}
	}
	return result, nil
}

type fakeContestStore struct {
	contests    map[uuid.UUID]*models.Contest
	submissions *fakeSubmissionStore
}

func newFakeContestStore(submissions *fakeSubmissionStore) *fakeContestStore {
	store := &fakeContestStore{
		contests:    make(map[uuid.UUID]*models.Contest),
		submissions: submissions,
	}
	if submissions != nil {
		submissions.contests = store.contests
	}
	return store
}

func (f *fakeContestStore) FindPage(category string, page, limit int) ([]models.Contest, int64, error) {
	var visible []models.Contest
	for _, contest := range f.contests {
		if contest.Status != models.ContestConfirmed && contest.Status != models.ContestCompleted {
			continue
		}
		if category != "" && !strings.EqualFold(contest.Category, category) {
			continue
		}
		visible = append(visible, *contest)
	}
	sort.Slice(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})
	total := int64(len(visible))
	start := (page - 1) * limit
	if start > len(visible) {
		start = len(visible)
	}
	end := start + limit
	if end > len(visible) {
		end = len(visible)
	}
	return visible[start:end], total, nil
}

func (f *fakeContestStore) FindByID(id uuid.UUID) (*models.Contest, error) {
	return f.contests[id], nil
}

func (f *fakeContestStore) FindByCreator(email string) ([]models.Contest, error) {
	var result []models.Contest
	for _, contest := range f.contests {
		if contest.CreatorEmail == email {
			result = append(result, *contest)
		}
	}
	return result, nil
}

func (f *fakeContestStore) FindWonByEmail(email string) ([]models.Contest, error) {
	var result []models.Contest
	for _, contest := range f.contests {
		if contest.Status == models.ContestCompleted && contest.Winner != nil && contest.Winner.Email == email {
			result = append(result, *contest)
		}
	}
	return result, nil
}

func (f *fakeContestStore) Add(contest *models.Contest) error {
	f.contests[contest.ID] = contest
	return nil
}

func (f *fakeContestStore) Update(contest *models.Contest) error {
	existing, ok := f.contests[contest.ID]
	if !ok {
		return nil
	}
	existing.Name = contest.Name
	existing.Description = contest.Description
	existing.Image = contest.Image
	existing.Category = contest.Category
	existing.PrizeMoney = contest.PrizeMoney
	existing.EntryFee = contest.EntryFee
	existing.Deadline = contest.Deadline
	existing.TaskInstruction = contest.TaskInstruction
	return nil
}

func (f *fakeContestStore) UpdateStatus(id uuid.UUID, status models.ContestStatus, approver string, at time.Time) error {
	contest, ok := f.contests[id]
	if !ok || contest.Status != models.ContestPending {
		return errs.NewInvalidStateError("contest is no longer Pending")
	}
	contest.Status = status
	contest.ApprovedBy = &approver
	contest.ApprovedAt = &at
	return nil
}

func (f *fakeContestStore) DeclareWinner(id uuid.UUID, winner models.Winner) error {
	contest, ok := f.contests[id]
	if !ok || contest.Status != models.ContestConfirmed || contest.Winner != nil {
		return errs.NewConflictError("winner already declared")
	}
	contest.Winner = &winner
	contest.Status = models.ContestCompleted
	if winner.SubmissionID != nil && f.submissions != nil {
		if submission, ok := f.submissions.submissions[*winner.SubmissionID]; ok {
			submission.Status = models.SubmissionWinner
		}
	}
	return nil
}

func (f *fakeContestStore) Delete(id uuid.UUID) error {
	delete(f.contests, id)
	return nil
}

type fakeOrderStore struct {
	orders   map[string]*models.Order // keyed by transaction id
	contests *fakeContestStore
}

func newFakeOrderStore(contests *fakeContestStore) *fakeOrderStore {
	return &fakeOrderStore{
		orders:   make(map[string]*models.Order),
		contests: contests,
	}
}

func (f *fakeOrderStore) FindByTransactionID(transactionID string) (*models.Order, error) {
	return f.orders[transactionID], nil
}

func (f *fakeOrderStore) FindByEmail(email string) ([]models.Order, error) {
	var result []models.Order
	for _, order := range f.orders {
		if order.Email == email {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrderStore) FindByCreator(creatorEmail string) ([]models.Order, error) {
	var result []models.Order
	for _, order := range f.orders {
		if order.CreatorEmail == creatorEmail {
			result = append(result, *order)
		}
	}
	return result, nil
}

func (f *fakeOrderStore) Settle(order *models.Order) (bool, error) {
	if _, ok := f.orders[order.TransactionID]; ok {
		return false, nil
	}
	order.CreatedAt = time.Now()
	f.orders[order.TransactionID] = order

	if contest, ok := f.contests.contests[order.ContestID]; ok {
		already := false
		for _, participant := range contest.Participants {
			if participant.Email == order.Email {
				already = true
				break
			}
		}
		if !already {
			contest.Participants = append(contest.Participants, models.ContestParticipant{
				ContestID: order.ContestID,
				Email:     order.Email,
				JoinedAt:  time.Now(),
			})
			contest.ParticipantCount++
		}
	}
	return true, nil
}

type fakePaymentProvider struct {
	sessions    map[string]*services.SessionResult
	createErr   error
	getErr      error
	lastRequest *services.CheckoutInput
}

func newFakePaymentProvider() *fakePaymentProvider {
	return &fakePaymentProvider{sessions: make(map[string]*services.SessionResult)}
}

func (f *fakePaymentProvider) CreateCheckoutSession(_ context.Context, input services.CheckoutInput) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.lastRequest = &input
	return "https://pay.example.com/session", nil
}

func (f *fakePaymentProvider) GetSession(_ context.Context, sessionID string) (*services.SessionResult, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	session, ok := f.sessions[sessionID]
	if !ok {
		return nil, errors.New("no such session")
	}
	return session, nil
}

type fakeStatsStore struct {
	overview *database.AdminOverview
	recent   []models.Contest
	totals   database.LeaderboardTotals
	rankings []database.WinnerRanking
}

func (f *fakeStatsStore) AdminOverview() (*database.AdminOverview, error) {
	return f.overview, nil
}

func (f *fakeStatsStore) RecentWinners(limit int) ([]models.Contest, *database.LeaderboardTotals, error) {
	if len(f.recent) > limit {
		return f.recent[:limit], &f.totals, nil
	}
	return f.recent, &f.totals, nil
}

func (f *fakeStatsStore) TopWinners() ([]database.WinnerRanking, error) {
	return f.rankings, nil
}
