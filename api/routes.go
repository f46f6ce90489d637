package api

import (
	"github.com/go-chi/chi/v5"
)

// setupRoutes wires every endpoint into its auth group: public, authenticated,
// creator-gated and admin-gated.
func setupRoutes(r chi.Router, handlers *routeHandlers, auth authMiddleware) {
	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)

		r.Get("/contests", handlers.contestHandler.getAllContests())
		r.Get("/contest/{contestID}", handlers.contestHandler.getContest())
		r.Get("/winners-leaderboard", handlers.statsHandler.winnersLeaderboard())
		r.Get("/top-winners-ranking", handlers.statsHandler.topWinnersRanking())
		r.Post("/contact", handlers.contactHandler.createContact())
	})

	// Authenticated routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)

		r.Post("/user-login", handlers.userHandler.login())
		r.Get("/user", handlers.userHandler.getUser())
		r.Patch("/user", handlers.userHandler.updateUser())
		r.Post("/become-creator", handlers.userHandler.becomeCreator())

		r.Post("/create-checkout-session", handlers.paymentHandler.createCheckoutSession())
		r.Post("/payment-success", handlers.paymentHandler.paymentSuccess())

		r.Post("/submit-task", handlers.submissionHandler.submitTask())
		r.Get("/contest-submission-status/{contestID}/{email}", handlers.submissionHandler.getSubmissionStatus())

		r.Get("/my-stats", handlers.statsHandler.participantStats())
		r.Get("/Participant-stats", handlers.statsHandler.participantStats())
		r.Get("/my-winning-contests", handlers.statsHandler.myWinningContests())
	})

	// Creator routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)
		r.Use(auth.requireCreator)

		r.Post("/contests", handlers.contestHandler.createContest())
		r.Put("/contests-update/{contestID}", handlers.contestHandler.updateContest())
		r.Patch("/contests/winner/{contestID}", handlers.contestHandler.declareWinner())
		r.Delete("/creator-contests-delete/{contestID}", handlers.contestHandler.creatorDeleteContest())
		r.Get("/my-contests", handlers.contestHandler.getMyContests())

		r.Get("/contest-submissions/{contestID}", handlers.submissionHandler.getContestSubmissions())
		r.Get("/creator-submissions/{email}", handlers.submissionHandler.getCreatorSubmissions())
		r.Get("/creator-stats", handlers.statsHandler.creatorStats())
	})

	// Admin routes
	r.Group(func(r chi.Router) {
		r.Use(ColoredHTTPLoggingMiddleware)
		r.Use(auth.authenticate)
		r.Use(auth.requireAdmin)

		r.Patch("/contest-status/{contestID}", handlers.contestHandler.updateContestStatus())
		r.Delete("/contests-delete/{contestID}", handlers.contestHandler.adminDeleteContest())
		r.Get("/users", handlers.userHandler.getUsers())
		r.Patch("/update-role", handlers.userHandler.updateRole())
		r.Get("/creator-requests", handlers.userHandler.getCreatorRequests())
		r.Get("/admin-stats", handlers.statsHandler.adminStats())
		r.Get("/contact-messages", handlers.contactHandler.getContactMessages())
		r.Patch("/contact-messages/{messageID}/read", handlers.contactHandler.markContactRead())
	})
}
