package handler

import (
	"io"
	"net/http"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/service"
)

type DocumentHandler struct {
	documentService service.DocumentService
	authHandler     *AuthHandler
	logger          echo.Logger
}

func NewDocumentHandler(documentService service.DocumentService, authHandler *AuthHandler, logger echo.Logger) *DocumentHandler {
	return &DocumentHandler{
		documentService: documentService,
		authHandler:     authHandler,
		logger:          logger,
	}
}

// UploadDocument stores an attachment for later use on drafts
func (h *DocumentHandler) UploadDocument(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Missing file field",
		})
	}

	file, err := fileHeader.Open()
	if err != nil {
		h.logger.Error("Failed to open uploaded file:", err)
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Unreadable file",
		})
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		h.logger.Error("Failed to read uploaded file:", err)
		return c.JSON(http.StatusInternalServerError, map[string]string{
			"error": "Failed to read file",
		})
	}

	document, err := h.documentService.UploadDocument(
		c.Request().Context(),
		user.ID,
		fileHeader.Filename,
		fileHeader.Header.Get("Content-Type"),
		data,
	)
	if err != nil {
		h.logger.Error("Failed to store document:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, document)
}

// GetDocuments lists the user's stored attachments
func (h *DocumentHandler) GetDocuments(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	documents, err := h.documentService.GetDocuments(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get documents:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, documents)
}

// DeleteDocument deletes a stored attachment
func (h *DocumentHandler) DeleteDocument(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	if err := h.documentService.DeleteDocument(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		h.logger.Error("Failed to delete document:", err)
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}
