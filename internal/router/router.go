package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/handler"
	"outreachpilot/internal/middleware"
)

func SetupRoutes(
	e *echo.Echo,
	authHandler *handler.AuthHandler,
	recipientHandler *handler.RecipientHandler,
	draftHandler *handler.DraftHandler,
	mailboxHandler *handler.MailboxHandler,
	documentHandler *handler.DocumentHandler,
	trackingHandler *handler.TrackingHandler,
) {
	// Public routes
	e.GET("/auth/:provider", authHandler.BeginAuthHandler)
	e.GET("/auth/:provider/callback", authHandler.CallbackHandler)
	e.GET("/auth/logout", authHandler.LogoutHandler)

	e.GET("/health", func(c echo.Context) error {
		return c.String(http.StatusOK, "OK")
	})

	// Tracking endpoints hit by recipients' mail clients, never by a
	// signed-in session
	e.GET("/track/open", trackingHandler.Open)
	e.GET("/track/click", trackingHandler.Click)

	// Protected API routes
	protected := e.Group("/api")
	protected.Use(middleware.AuthMiddleware(authHandler))

	protected.GET("/me", authHandler.GetMe)
	protected.PUT("/me", authHandler.UpdateProfile)

	// Recipient API routes
	protected.POST("/recipients", recipientHandler.CreateRecipient)
	protected.GET("/recipients", recipientHandler.GetRecipients)
	protected.GET("/recipients/:id", recipientHandler.GetRecipient)
	protected.PUT("/recipients/:id", recipientHandler.UpdateRecipient)
	protected.DELETE("/recipients/:id", recipientHandler.DeleteRecipient)

	// Draft API routes
	protected.POST("/drafts", draftHandler.CreateDraft)
	protected.GET("/drafts", draftHandler.GetDrafts)
	protected.GET("/drafts/:id", draftHandler.GetDraft)
	protected.PUT("/drafts/:id", draftHandler.UpdateDraft)
	protected.DELETE("/drafts/:id", draftHandler.DeleteDraft)
	protected.POST("/drafts/:id/send", draftHandler.SendDraft)
	protected.POST("/drafts/:id/reply", draftHandler.ReplyDraft)
	protected.GET("/drafts/:id/thread", draftHandler.GetThread)
	protected.GET("/drafts/:id/analytics", draftHandler.GetAnalytics)

	// Mailbox connection routes
	protected.GET("/mailbox/connect", mailboxHandler.Connect)
	protected.GET("/mailbox/callback", mailboxHandler.Callback)
	protected.GET("/mailbox/status", mailboxHandler.Status)
	protected.DELETE("/mailbox", mailboxHandler.Disconnect)

	// Document API routes
	protected.POST("/documents", documentHandler.UploadDocument)
	protected.GET("/documents", documentHandler.GetDocuments)
	protected.DELETE("/documents/:id", documentHandler.DeleteDocument)

	// Real-time engagement updates via Server-Sent Events (SSE)
	protected.GET("/sse", draftHandler.SSEEngagementUpdates)
}
