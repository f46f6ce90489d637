package api

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
)

// submissionStore is the slice of the submission repository the handler needs.
type submissionStore interface {
	Add(submission *models.Submission) error
	FindByContest(contestID uuid.UUID) ([]models.Submission, error)
	Exists(contestID uuid.UUID, email string) (bool, error)
	FindByCreator(creatorEmail string) ([]models.Submission, error)
}

type submissionContestFinder interface {
	FindByID(id uuid.UUID) (*models.Contest, error)
}

type submissionHandler struct {
	responder   Responder
	logger      zerolog.Logger
	submissions submissionStore
	contests    submissionContestFinder
}

func newSubmissionHandler(submissions submissionStore, contests submissionContestFinder) submissionHandler {
	logger := log.With().Str("handlerName", "submissionHandler").Logger()

	return submissionHandler{
		responder:   NewResponder(logger),
		logger:      logger,
		submissions: submissions,
		contests:    contests,
	}
}

type submitTaskRequest struct {
	ContestID string `json:"contestId"`
	Task      string `json:"task"`
	Name      string `json:"name"`
	Photo     string `json:"photo"`
}

// submitTask stores the caller's task entry. The caller must have entered the
// contest, and the unique index on (contest, email) turns a second submit
// into a conflict.
func (h submissionHandler) submitTask() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		var body submitTaskRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if body.Task == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("task"))
			return
		}
		contestID, err := uuid.Parse(body.ContestID)
		if err != nil {
			h.responder.WriteError(w, errs.NewInvalidFieldError("contestId", "must be a valid id"))
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
		if contest.Status != models.ContestConfirmed {
			h.responder.WriteError(w, errs.NewInvalidStateError("contest is not accepting submissions"))
			return
		}

		entered := false
		for _, participant := range contest.Participants {
			if participant.Email == email {
				entered = true
				break
			}
		}
		if !entered {
			h.responder.WriteError(w, errs.NewForbiddenError("contest entry required before submitting", "participant"))
			return
		}

		submission := models.Submission{
			ID:        uuid.New(),
			ContestID: contestID,
			Email:     email,
			Name:      body.Name,
			Photo:     body.Photo,
			Task:      body.Task,
			Status:    models.SubmissionPending,
		}
		if err := h.submissions.Add(&submission); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create submission", "submission", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, submission)
	}
}

// getContestSubmissions lists a contest's submissions for its creator.
func (h submissionHandler) getContestSubmissions() http.HandlerFunc {
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
			h.responder.WriteError(w, errs.NewForbiddenError("only the recorded creator can view submissions", string(caller.Role)))
			return
		}

		submissions, err := h.submissions.FindByContest(contestID)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find submissions", "submissions", err))
			return
		}

		h.responder.WriteJSON(w, submissions)
	}
}

// getSubmissionStatus answers whether a participant already submitted for a
// contest. Advisory for the client; the database constraint is the invariant.
func (h submissionHandler) getSubmissionStatus() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		contestID, apiErr := parseContestID(r)
		if apiErr != nil {
			h.responder.WriteError(w, apiErr)
			return
		}
		email := chi.URLParam(r, "email")
		if email == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing email"))
			return
		}

		submitted, err := h.submissions.Exists(contestID, email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find submission", "submission", err))
			return
		}

		h.responder.WriteJSON(w, map[string]bool{"submitted": submitted})
	}
}

// getCreatorSubmissions lists submissions across all of the caller's contests.
func (h submissionHandler) getCreatorSubmissions() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		caller, err := ctxGetUser(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing caller identity"))
			return
		}

		email := chi.URLParam(r, "email")
		if email == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing email"))
			return
		}
		if email != caller.Email {
			h.responder.WriteError(w, errs.NewForbiddenError("creators can only view their own submission feed", string(caller.Role)))
			return
		}

		submissions, err := h.submissions.FindByCreator(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find submissions", "submissions", err))
			return
		}

		h.responder.WriteJSON(w, submissions)
	}
}
