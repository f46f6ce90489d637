package api

import (
	"github.com/contesthub/contest-platform-backend/database"
	"github.com/contesthub/contest-platform-backend/services"
)

// initializeHandlers creates and returns all handlers organized in a routeHandlers struct
func initializeHandlers(db database.Database, payments services.PaymentProvider, notifier contactNotifier) *routeHandlers {
	return &routeHandlers{
		contestHandler:    newContestHandler(db.ContestRepo(), db.SubmissionRepo()),
		paymentHandler:    newPaymentHandler(payments, db.ContestRepo(), db.OrderRepo()),
		submissionHandler: newSubmissionHandler(db.SubmissionRepo(), db.ContestRepo()),
		userHandler:       newUserHandler(db.UserRepo(), db.CreatorRequestRepo()),
		statsHandler:      newStatsHandler(db.OrderRepo(), db.ContestRepo(), db.StatsRepo()),
		contactHandler:    newContactHandler(db.ContactRepo(), notifier),
	}
}
