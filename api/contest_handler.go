package api

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
)

// contestStore is the slice of the contest repository the handler needs.
type contestStore interface {
	FindPage(category string, page, limit int) ([]models.Contest, int64, error)
	FindByID(id uuid.UUID) (*models.Contest, error)
	FindByCreator(email string) ([]models.Contest, error)
	Add(contest *models.Contest) error
	Update(contest *models.Contest) error
	UpdateStatus(id uuid.UUID, status models.ContestStatus, approver string, at time.Time) error
	DeclareWinner(id uuid.UUID, winner models.Winner) error
	Delete(id uuid.UUID) error
}

type submissionFinder interface {
	FindByID(id uuid.UUID) (*models.Submission, error)
}

type contestHandler struct {
	responder   Responder
	logger      zerolog.Logger
	contests    contestStore
	submissions submissionFinder
}

func newContestHandler(contests contestStore, submissions submissionFinder) contestHandler {
	logger := log.With().Str("handlerName", "contestHandler").Logger()

	return contestHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		contests:    contests,
		submissions: submissions,
	}
}

// ContestPage is one page of the public contest listing.
type ContestPage struct {
	Contests []models.Contest `json:"contests"`
	Total    int64            `json:"total"`
	Page     int              `json:"page"`
	Limit    int              `json:"limit"`
}

// getAllContests lists Confirmed and Completed contests with pagination and
// an optional case-insensitive category filter.
func (h contestHandler) getAllContests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		category := r.URL.Query().Get("type")

		page, err := strconv.Atoi(r.URL.Query().Get("page"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(r.URL.Query().Get("limit"))
		if err != nil || limit < 1 || limit > 100 {
			limit = 10
		}

		contests, total, err := h.contests.FindPage(category, page, limit)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contests", "contests", err))
			return
		}

		h.responder.WriteJSON(w, ContestPage{
			Contests: contests,
			Total:    total,
			Page:     page,
			Limit:    limit,
		})
	}
}

// getContest retrieves a single contest by id.
func (h contestHandler) getContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		contest, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if contest == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}

		h.responder.WriteJSON(w, contest)
	}
}

// createContest creates a new contest for the calling creator. The lifecycle
// always starts at Pending; caller-supplied status, winner and approval
// fields are discarded.
func (h contestHandler) createContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		var contest models.Contest
		if err := json.NewDecoder(r.Body).Decode(&contest); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode contest request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if contest.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if contest.Category == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("category"))
			return
		}
		if contest.EntryFee < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("entryFee", "must not be negative"))
			return
		}
		if contest.PrizeMoney < 0 {
			h.responder.WriteError(w, errs.NewInvalidFieldError("prizeMoney", "must not be negative"))
			return
		}

		// Server-assigned initial state; never trust the caller here.
		contest.ID = uuid.New()
		contest.Status = models.ContestPending
		contest.Winner = nil
		contest.ApprovedBy = nil
		contest.ApprovedAt = nil
		contest.ParticipantCount = 0
		contest.Participants = nil
		contest.CreatorEmail = caller.Email
		contest.CreatorName = caller.Name
		contest.CreatedAt = time.Now()

		if err := h.contests.Add(&contest); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create contest", "contest", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, contest)
	}
}

// updateContest lets the recorded creator edit the content fields of their
// own contest. Lifecycle fields are not writable here.
func (h contestHandler) updateContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		existing, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if existing == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}
		if existing.CreatorEmail != caller.Email {
			h.responder.WriteError(w, errs.NewForbiddenError("only the recorded creator can update this contest", string(caller.Role)))
			return
		}

		var contest models.Contest
		if err := json.NewDecoder(r.Body).Decode(&contest); err != nil {
			h.logger.Error().Err(err).Msg("Failed to decode contest request body")
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		contest.ID = contestID

		if err := h.contests.Update(&contest); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contest", "contest", err))
			return
		}

		updated, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find updated contest", "contest", err))
			return
		}

		h.responder.WriteJSON(w, updated)
	}
}

type contestStatusRequest struct {
	Status models.ContestStatus `json:"status"`
}

// updateContestStatus is the admin approve/reject transition. Only Confirmed
// and Rejected are acceptable targets, and only from Pending.
func (h contestHandler) updateContestStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var body contestStatusRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if body.Status != models.ContestConfirmed && body.Status != models.ContestRejected {
			h.responder.WriteError(w, errs.NewInvalidFieldError("status", "must be Confirmed or Rejected"))
			return
		}

		contest, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if contest == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}
		if contest.Status != models.ContestPending {
			h.responder.WriteError(w, errs.NewInvalidStateError("contest is not Pending"))
			return
		}

		if err := h.contests.UpdateStatus(contestID, body.Status, caller.Email, time.Now()); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "contest status updated",
		})
	}
}

type declareWinnerRequest struct {
	SubmissionID string `json:"submissionId"`
}

// declareWinner completes a Confirmed contest by recording the winner from a
// submission. The contest update and the submission's Winner mark happen in
// one transaction in the repository.
func (h contestHandler) declareWinner() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		var body declareWinnerRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		submissionID, err := uuid.Parse(body.SubmissionID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("submissionId", "must be a valid id"))
			return
		}

		contest, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if contest == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}
		if contest.CreatorEmail != caller.Email {
			h.responder.WriteError(w, errs.NewForbiddenError("only the recorded creator can declare a winner", string(caller.Role)))
			return
		}
		if contest.Winner != nil {
			h.responder.WriteError(w, errs.NewConflictError("winner already declared"))
			return
		}
		if contest.Status != models.ContestConfirmed {
			h.responder.WriteError(w, errs.NewInvalidStateError("contest must be Confirmed to declare a winner"))
			return
		}

		submission, err := h.submissions.FindByID(submissionID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find submission", "submission", err))
			return
		}
		if submission == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("submission not found"))
			return
		}
		if submission.ContestID != contestID {
			h.responder.WriteError(w, errs.NewInvalidFieldError("submissionId", "submission does not belong to this contest"))
			return
		}

		winner := models.Winner{
			Name:         submission.Name,
			Email:        submission.Email,
			Photo:        submission.Photo,
			SubmissionID: &submission.ID,
			DeclaredAt:   time.Now(),
		}
		if err := h.contests.DeclareWinner(contestID, winner); err != nil {
			h.responder.WriteError(w, err)
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "winner declared",
		})
	}
}

// creatorDeleteContest deletes the caller's own contest, allowed only while
// it is still Pending.
func (h contestHandler) creatorDeleteContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		contest, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if contest == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}
		if contest.CreatorEmail != caller.Email {
			h.responder.WriteError(w, errs.NewForbiddenError("only the recorded creator can delete this contest", string(caller.Role)))
			return
		}
		if contest.Status != models.ContestPending {
			h.responder.WriteError(w, errs.NewForbiddenError("only Pending contests can be deleted by their creator", string(caller.Role)))
			return
		}

		if err := h.contests.Delete(contestID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete contest", "contest", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "contest deleted",
		})
	}
}

// adminDeleteContest deletes a contest regardless of status.
func (h contestHandler) adminDeleteContest() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}

		contest, err := h.contests.FindByID(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
			return
		}
		if contest == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("contest not found"))
			return
		}

		if err := h.contests.Delete(contestID); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("delete contest", "contest", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "contest deleted",
		})
	}
}

// getMyContests lists the calling creator's own contests, any status.
func (h contestHandler) getMyContests() http.HandlerFunc {
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

		h.responder.WriteJSON(w, contests)
	}
}

// parseContestID extracts and validates the contest id path parameter.
func parseContestID(r *http.Request) (uuid.UUID, *errs.ApiErr) {
	idStr := chi.URLParam(r, "contestID")
	if idStr == "" {
		return uuid.Nil, errs.NewBadRequestError("missing contestID")
	}
	id, err := uuid.Parse(idStr)
	if err != nil {
		return uuid.Nil, errs.NewBadRequestError("invalid contestID")
	}
	return id, nil
}
