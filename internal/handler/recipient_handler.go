package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/service"
)

type RecipientHandler struct {
	recipientService service.RecipientService
	authHandler      *AuthHandler
	logger           echo.Logger
}

func NewRecipientHandler(recipientService service.RecipientService, authHandler *AuthHandler, logger echo.Logger) *RecipientHandler {
	return &RecipientHandler{
		recipientService: recipientService,
		authHandler:      authHandler,
		logger:           logger,
	}
}

type recipientRequest struct {
	Name         string `json:"name"`
	Email        string `json:"email"`
	Organization string `json:"organization"`
	Role         string `json:"role"`
	Notes        string `json:"notes"`
}

// CreateRecipient creates a new outreach recipient
func (h *RecipientHandler) CreateRecipient(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req recipientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	recipient, err := h.recipientService.CreateRecipient(
		c.Request().Context(),
		user.ID,
		req.Name, req.Email, req.Organization, req.Role, req.Notes,
	)
	if err != nil {
		h.logger.Error("Failed to create recipient:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, recipient)
}

// GetRecipients retrieves all recipients for the authenticated user
func (h *RecipientHandler) GetRecipients(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	recipients, err := h.recipientService.GetAllRecipients(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get recipients:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, recipients)
}

// GetRecipient retrieves a recipient by ID
func (h *RecipientHandler) GetRecipient(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	recipient, err := h.recipientService.GetRecipient(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, recipient)
}

// UpdateRecipient updates an existing recipient
func (h *RecipientHandler) UpdateRecipient(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req recipientRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	recipient, err := h.recipientService.UpdateRecipient(
		c.Request().Context(),
		user.ID,
		c.Param("id"),
		req.Name, req.Email, req.Organization, req.Role, req.Notes,
	)
	if err != nil {
		h.logger.Error("Failed to update recipient:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, recipient)
}

// DeleteRecipient deletes a recipient
func (h *RecipientHandler) DeleteRecipient(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	if err := h.recipientService.DeleteRecipient(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		h.logger.Error("Failed to delete recipient:", err)
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
