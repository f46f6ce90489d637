package api

import (
	"encoding/json"
	"net/http"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/contesthub/contest-platform-backend/errs"
	"github.com/contesthub/contest-platform-backend/models"
	"github.com/contesthub/contest-platform-backend/services"
)

// orderStore is the slice of the order repository settlement needs.
type orderStore interface {
	FindByTransactionID(transactionID string) (*models.Order, error)
	Settle(order *models.Order) (created bool, err error)
}

type paymentContestFinder interface {
	FindByID(id uuid.UUID) (*models.Contest, error)
}

type paymentHandler struct {
	responder Responder
	logger    zerolog.Logger
	provider  services.PaymentProvider
	contests  paymentContestFinder
	orders    orderStore
}

func newPaymentHandler(provider services.PaymentProvider, contests paymentContestFinder, orders orderStore) paymentHandler {
	logger := log.With().Str("handlerName", "paymentHandler").Logger()

	return paymentHandler{
		responder: NewResponder(logger),
		logger:    logger,
		provider:  provider,
		contests:  contests,
		orders:    orders,
	}
}

type checkoutRequest struct {
	ContestID string `json:"contestId"`
}

type checkoutResponse struct {
	URL string `json:"url"`
}

// createCheckoutSession delegates checkout to the payment provider: one line
// item priced at the entry fee in minor units, with the contest id and the
// caller's email planted as metadata for settlement.
func (h paymentHandler) createCheckoutSession() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		var body checkoutRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
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
			h.responder.WriteError(w, errs.NewInvalidStateError("contest is not open for entry"))
			return
		}

		redirectURL, err := h.provider.CreateCheckoutSession(r.Context(), services.CheckoutInput{
			ContestID:   contest.ID.String(),
			ContestName: contest.Name,
			EntryFee:    contest.EntryFee,
			Email:       email,
		})
		if err != nil {
			h.logger.Error().Err(err).Msg("Failed to create checkout session")
			h.responder.WriteError(w, errs.NewUpstreamError("payment provider", err))
			return
		}

		h.responder.WriteJSON(w, checkoutResponse{URL: redirectURL})
	}
}

type paymentSuccessRequest struct {
	SessionID string `json:"sessionId"`
}

type paymentSuccessResponse struct {
	TransactionID string     `json:"transactionId"`
	OrderID       *uuid.UUID `json:"orderId,omitempty"`
	Settled       bool       `json:"settled"`
}

// paymentSuccess reconciles a checkout session into at most one order and one
// participation. The first settlement for a transaction id inserts the order
// snapshot, adds the participant and bumps the counter; every retry after
// that (or an incomplete session, or a vanished contest) writes nothing and
// answers with the existing order id. The unique index on transaction_id is
// what holds under concurrent retries; the order lookup here is a fast path.
func (h paymentHandler) paymentSuccess() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		email, err := ctxGetEmail(r.Context())
		if err != nil {
			h.responder.WriteError(w, errs.NewUnauthorizedError("missing verified email"))
			return
		}

		var body paymentSuccessRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			h.responder.WriteError(w, errs.NewBadRequestError("malformed request body"))
			return
		}
		if body.SessionID == "" {
			h.responder.WriteError(w, errs.NewMissingRequiredFieldError("sessionId"))
			return
		}

		session, err := h.provider.GetSession(r.Context(), body.SessionID)
		if err != nil {
			h.logger.Error().Err(err).Str("sessionId", body.SessionID).Msg("Failed to retrieve checkout session")
			h.responder.WriteError(w, errs.NewUpstreamError("payment provider", err))
			return
		}

		var contest *models.Contest
		if contestID, parseErr := uuid.Parse(session.ContestID); parseErr == nil {
			contest, err = h.contests.FindByID(contestID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find contest", "contest", err))
				return
			}
		}

		var existing *models.Order
		if session.TransactionID != "" {
			existing, err = h.orders.FindByTransactionID(session.TransactionID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find order", "order", err))
				return
			}
		}

		if session.Complete && contest != nil && existing == nil && session.TransactionID != "" {
			participant := session.Email
			if participant == "" {
				participant = email
			}
			order := &models.Order{
				ID:            uuid.New(),
				ContestID:     contest.ID,
				TransactionID: session.TransactionID,
				Email:         participant,
				Status:        "Paid",
				ContestName:   contest.Name,
				Category:      contest.Category,
				EntryFee:      contest.EntryFee,
				Image:         contest.Image,
				CreatorEmail:  contest.CreatorEmail,
			}

			created, err := h.orders.Settle(order)
			if err != nil {
				h.logger.Error().Err(err).Str("transactionId", session.TransactionID).Msg("Settlement failed")
				h.responder.WriteError(w, errs.NewUpstreamError("payment processing", err))
				return
			}
			if created {
				h.responder.WriteJSON(w, paymentSuccessResponse{
					TransactionID: session.TransactionID,
					OrderID:       &order.ID,
					Settled:       true,
				})
				return
			}

			// Lost the insert race to a concurrent retry; answer with its order.
			existing, err = h.orders.FindByTransactionID(session.TransactionID)
			if err != nil {
				h.responder.WriteError(w, wrapDatabaseError("find order", "order", err))
				return
			}
		}

		response := paymentSuccessResponse{TransactionID: session.TransactionID}
		if existing != nil {
			response.OrderID = &existing.ID
		}
		h.responder.WriteJSON(w, response)
	}
}
