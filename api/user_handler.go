package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
)

// userStore is the slice of the user repository the handler needs.
type userStore interface {
	FindByEmail(email string) (*models.User, error)
	FindAll() ([]models.User, error)
	UpsertLogin(user *models.User) (*models.User, error)
	UpdateProfile(email, name, photo, bio string) error
	UpdateRole(email string, role models.Role) error
}

// creatorRequestStore is the slice of the creator-request repository the
// handler needs.
type creatorRequestStore interface {
	Add(request *models.CreatorRequest) error
	FindAll() ([]models.CreatorRequest, error)
	Delete(email string) error
}

type userHandler struct {
	responder       Responder
	logger          zerolog.Logger
	users           userStore
	creatorRequests creatorRequestStore
}

func newUserHandler(users userStore, creatorRequests creatorRequestStore) userHandler {
	logger := log.With().Str("handlerName", "userHandler").Logger()

	return userHandler{
		responder:       NewResponder(logger),
		logger:          logger,
		users:           users,
		creatorRequests: creatorRequests,
	}
}

type loginRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
}

// login upserts the user record on a verified login: first login creates the
// row with the participant role, later logins refresh name/photo/lastLogin.
func (h userHandler) login() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		var body loginRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		user, err := h.users.UpsertLogin(&models.User{
			Email: email,
			Name:  body.Name,
			Photo: body.Photo,
			Role:  models.RoleParticipant,
		})
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("upsert user", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// getUser returns the caller's own profile.
func (h userHandler) getUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		user, err := h.users.FindByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

type updateProfileRequest struct {
	Name  string `json:"name"`
	Photo string `json:"photo"`
	Bio   string `json:"bio"`
}

// updateUser updates the caller's editable profile fields.
func (h userHandler) updateUser() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		var body updateProfileRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}

		if err := h.users.UpdateProfile(email, body.Name, body.Photo, body.Bio); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update user", "user", err))
			return
		}

		user, err := h.users.FindByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}

		h.responder.WriteJSON(w, user)
	}
}

// becomeCreator files a promotion request for the caller. Users who already
// hold an elevated role, or already asked, get a conflict.
func (h userHandler) becomeCreator() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		user, err := h.users.FindByEmail(email)
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find user", "user", err))
			return
		}
		if user == nil {
			h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
			return
		}
		if user.Role != models.RoleParticipant {
			h.responder.WriteError(w, errs.NewConflictError("user already holds an elevated role"))
			return
		}

		if err := h.creatorRequests.Add(&models.CreatorRequest{Email: email}); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create creator request", "creator request", err))
			return
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "creator request filed",
		})
	}
}

// getCreatorRequests lists pending promotion requests for admins.
func (h userHandler) getCreatorRequests() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requests, err := h.creatorRequests.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find creator requests", "creator requests", err))
			return
		}

		h.responder.WriteJSON(w, requests)
	}
}

// getUsers lists all users for admins.
func (h userHandler) getUsers() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		users, err := h.users.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find users", "users", err))
			return
		}

		h.responder.WriteJSON(w, users)
	}
}

type updateRoleRequest struct {
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// updateRole promotes or demotes a user. Acting on a user deletes any pending
// creator request for them.
func (h userHandler) updateRole() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body updateRoleRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if body.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if !models.ValidRole(body.Role) {
			h.responder.WriteError(w, errs.NewInvalidFieldError("role", "must be participant, contestCreator or admin"))
			return
		}

		if err := h.users.UpdateRole(body.Email, body.Role); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				h.responder.WriteError(w, errs.NewNotFoundError("user not found"))
				return
			}
			h.responder.WriteError(w, wrapDatabaseError("update role", "user", err))
			return
		}

		if err := h.creatorRequests.Delete(body.Email); err != nil {
			h.logger.Error().Err(err).Str("email", body.Email).Msg("Failed to delete creator request after role change")
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "role updated",
		})
	}
}
