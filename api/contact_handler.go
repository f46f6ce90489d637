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

type contactStore interface {
	Add(message *models.ContactMessage) error
	FindAll() ([]models.ContactMessage, error)
	MarkRead(id uuid.UUID) error
}

// contactNotifier forwards stored contact messages to the admin inbox.
type contactNotifier interface {
	ContactReceived(message models.ContactMessage) error
}

type contactHandler struct {
	responder Responder
	logger    zerolog.Logger
	contacts  contactStore
	notifier  contactNotifier
}

func newContactHandler(contacts contactStore, notifier contactNotifier) contactHandler {
	logger := log.With().Str("handlerName", "contactHandler").Logger()

	return contactHandler{
		responder: NewResponder(logger),
		logger:    logger,
		contacts:  contacts,
		notifier:  notifier,
	}
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}

// createContact stores a public contact-form message. Notification delivery
// is best effort; the message is already persisted when it runs.
func (h contactHandler) createContact() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body contactRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if body.Name == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("name"))
			return
		}
		if body.Email == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("email"))
			return
		}
		if body.Message == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("message"))
			return
		}

		message := models.ContactMessage{
			ID:      uuid.New(),
			Name:    body.Name,
			Email:   body.Email,
			Message: body.Message,
		}
		if err := h.contacts.Add(&message); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("create contact message", "contact message", err))
			return
		}

		if err := h.notifier.ContactReceived(message); err != nil {
			h.logger.Error().Err(err).Msg("Failed to send contact notification")
		}

		w.WriteHeader(http.StatusCreated)
		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "message received",
		})
	}
}

// getContactMessages lists all contact messages for admins.
func (h contactHandler) getContactMessages() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		messages, err := h.contacts.FindAll()
		if err != nil {
			h.responder.WriteError(w, wrapDatabaseError("find contact messages", "contact messages", err))
			return
		}

		h.responder.WriteJSON(w, messages)
	}
}

// markContactRead flags a contact message as read.
func (h contactHandler) markContactRead() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idStr := chi.URLParam(r, "messageID")
		if idStr == "" {
			h.responder.WriteError(w, errs.NewBadRequestError("missing messageID"))
			return
		}
		id, err := uuid.Parse(idStr)
		if err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("invalid messageID"))
			return
		}

		if err := h.contacts.MarkRead(id); err != nil {
			h.responder.WriteError(w, wrapDatabaseError("update contact message", "contact message", err))
			return
		}

		h.responder.WriteJSON(w, map[string]string{
			"status":  "success",
			"message": "marked as read",
		})
	}
}
