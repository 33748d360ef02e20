package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/markbates/goth/gothic"

	"outreachpilot/internal/gmail"
	"outreachpilot/internal/service"
)

type MailboxHandler struct {
	mailboxService service.MailboxService
	exchanger      *gmail.OAuthExchanger
	authHandler    *AuthHandler
	logger         echo.Logger
}

func NewMailboxHandler(mailboxService service.MailboxService, exchanger *gmail.OAuthExchanger, authHandler *AuthHandler, logger echo.Logger) *MailboxHandler {
	return &MailboxHandler{
		mailboxService: mailboxService,
		exchanger:      exchanger,
		authHandler:    authHandler,
		logger:         logger,
	}
}

// Connect redirects the user to the Google consent page for mailbox
// scopes
func (h *MailboxHandler) Connect(c echo.Context) error {
	_, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	state := uuid.New().String()
	session, _ := gothic.Store.Get(c.Request(), "gothic_session")
	session.Values["mailbox_state"] = state
	if err := session.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error("Failed to save session:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to save session",
		})
	}

	return c.Redirect(http.StatusTemporaryRedirect, h.exchanger.AuthURL(state))
}

// Callback completes the mailbox connection after consent
func (h *MailboxHandler) Callback(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	session, _ := gothic.Store.Get(c.Request(), "gothic_session")
	expectedState, _ := session.Values["mailbox_state"].(string)
	delete(session.Values, "mailbox_state")
	if err := session.Save(c.Request(), c.Response()); err != nil {
		h.logger.Error("Failed to save session:", err)
	}

	if expectedState == "" || c.QueryParam("state") != expectedState {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid state parameter",
		})
	}

	code := c.QueryParam("code")
	if code == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing authorization code",
		})
	}

	if _, err := h.mailboxService.Connect(c.Request().Context(), user.ID, code); err != nil {
		h.logger.Error("Failed to connect mailbox:", err)
		return errorResponse(c, err)
	}

	return c.Redirect(http.StatusTemporaryRedirect, "/app")
}

// Status reports whether the user has a mailbox connected
func (h *MailboxHandler) Status(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	conn, err := h.mailboxService.Connection(c.Request().Context(), user.ID)
	if err != nil {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"connected": false,
		})
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"connected":     true,
		"email_address": conn.EmailAddress,
		"expires_at":    conn.ExpiresAt,
	})
}

// Disconnect removes the stored mailbox credentials
func (h *MailboxHandler) Disconnect(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	if err := h.mailboxService.Disconnect(c.Request().Context(), user.ID); err != nil {
		h.logger.Error("Failed to disconnect mailbox:", err)
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
