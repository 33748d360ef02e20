package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/model"
	"outreachpilot/internal/service"
	"outreachpilot/internal/sse"
)

type DraftHandler struct {
	composerService  service.ComposerService
	dispatchService  service.DispatchService
	threadService    service.ThreadService
	analyticsService service.AnalyticsService
	authHandler      *AuthHandler
	sseManager       *sse.Manager
	logger           echo.Logger
}

func NewDraftHandler(
	composerService service.ComposerService,
	dispatchService service.DispatchService,
	threadService service.ThreadService,
	analyticsService service.AnalyticsService,
	authHandler *AuthHandler,
	sseManager *sse.Manager,
	logger echo.Logger,
) *DraftHandler {
	return &DraftHandler{
		composerService:  composerService,
		dispatchService:  dispatchService,
		threadService:    threadService,
		analyticsService: analyticsService,
		authHandler:      authHandler,
		sseManager:       sseManager,
		logger:           logger,
	}
}

// CreateDraft creates a new outreach draft. When the request carries a
// subject or body the draft is stored as written; otherwise the
// selected AI provider composes it.
func (h *DraftHandler) CreateDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req struct {
		RecipientID         string   `json:"recipient_id"`
		Subject             string   `json:"subject"`
		Body                string   `json:"body"`
		Purpose             string   `json:"purpose"`
		Tone                string   `json:"tone"`
		Provider            string   `json:"provider"`
		ExtraContext        string   `json:"extra_context"`
		AttachedDocumentIDs []string `json:"attached_document_ids"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}
	if req.RecipientID == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "recipient_id is required",
		})
	}

	var draft *model.Draft
	if req.Subject != "" || req.Body != "" {
		draft, err = h.composerService.CreateDraft(c.Request().Context(), user.ID, &service.CreateDraftRequest{
			RecipientID:         req.RecipientID,
			Subject:             req.Subject,
			Body:                req.Body,
			Purpose:             model.Purpose(req.Purpose),
			Tone:                model.Tone(req.Tone),
			AttachedDocumentIDs: req.AttachedDocumentIDs,
		})
	} else {
		draft, err = h.composerService.GenerateDraft(c.Request().Context(), user.ID, &service.GenerateRequest{
			RecipientID:         req.RecipientID,
			Purpose:             model.Purpose(req.Purpose),
			Tone:                model.Tone(req.Tone),
			Provider:            req.Provider,
			ExtraContext:        req.ExtraContext,
			AttachedDocumentIDs: req.AttachedDocumentIDs,
		})
	}
	if err != nil {
		h.logger.Error("Failed to create draft:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusCreated, draft)
}

// GetDrafts retrieves all drafts for the authenticated user
func (h *DraftHandler) GetDrafts(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	drafts, err := h.composerService.GetAllDrafts(c.Request().Context(), user.ID)
	if err != nil {
		h.logger.Error("Failed to get drafts:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, drafts)
}

// GetDraft retrieves a draft by ID
func (h *DraftHandler) GetDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	draft, err := h.composerService.GetDraft(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		return errorResponse(c, err)
	}

	resp := struct {
		*model.Draft
		ReplyStats *model.ReplyStats `json:"reply_stats,omitempty"`
	}{Draft: draft}

	// Reply counts are decoration; an unreachable mailbox just shows zeros
	if draft.Status == model.DraftStatusSent {
		stats, err := h.threadService.GetReplyStats(c.Request().Context(), user.ID, draft.ID)
		if err != nil {
			h.logger.Warn("Failed to fetch reply stats for draft:", draft.ID, err)
			stats = &model.ReplyStats{}
		}
		resp.ReplyStats = stats
	}

	return c.JSON(http.StatusOK, resp)
}

// UpdateDraft edits the subject or body of an unsent draft
func (h *DraftHandler) UpdateDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req struct {
		Subject string `json:"subject"`
		Body    string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	draft, err := h.composerService.UpdateDraft(c.Request().Context(), user.ID, c.Param("id"), req.Subject, req.Body)
	if err != nil {
		h.logger.Error("Failed to update draft:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, draft)
}

// DeleteDraft deletes a draft
func (h *DraftHandler) DeleteDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	if err := h.composerService.DeleteDraft(c.Request().Context(), user.ID, c.Param("id")); err != nil {
		h.logger.Error("Failed to delete draft:", err)
		return errorResponse(c, err)
	}

	return c.NoContent(http.StatusNoContent)
}

// SendDraft dispatches a draft through the connected mailbox
func (h *DraftHandler) SendDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	draft, err := h.dispatchService.Send(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to send draft:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, draft)
}

// ReplyDraft sends a follow-up on a sent draft's thread
func (h *DraftHandler) ReplyDraft(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	var req struct {
		Body string `json:"body"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid request body",
		})
	}

	draft, err := h.dispatchService.Reply(c.Request().Context(), user.ID, c.Param("id"), req.Body)
	if err != nil {
		h.logger.Error("Failed to send reply:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, draft)
}

// GetThread reconstructs the conversation a sent draft started
func (h *DraftHandler) GetThread(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	messages, err := h.threadService.GetThread(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to get thread:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, messages)
}

// GetAnalytics returns the engagement rollup for a draft
func (h *DraftHandler) GetAnalytics(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	summary, err := h.analyticsService.Summarize(c.Request().Context(), user.ID, c.Param("id"))
	if err != nil {
		h.logger.Error("Failed to summarize engagement:", err)
		return errorResponse(c, err)
	}

	return c.JSON(http.StatusOK, summary)
}

// SSEEngagementUpdates streams live open and click events to the user
func (h *DraftHandler) SSEEngagementUpdates(c echo.Context) error {
	user, err := h.authHandler.GetCurrentUser(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	c.Response().Header().Set("Content-Type", "text/event-stream")
	c.Response().Header().Set("Cache-Control", "no-cache")
	c.Response().Header().Set("Connection", "keep-alive")

	clientChannel := h.sseManager.AddClient(user.ID)
	defer func() {
		h.sseManager.RemoveClient(user.ID, clientChannel)
	}()

	initEvent := map[string]interface{}{
		"type": "connection",
		"data": map[string]string{
			"message": "Connected to engagement updates",
			"userId":  user.ID,
		},
		"time": time.Now().Unix(),
	}
	initJSON, _ := json.Marshal(initEvent)
	fmt.Fprintf(c.Response(), "data: %s\n\n", initJSON)
	c.Response().Flush()

	for {
		select {
		case eventData, ok := <-clientChannel:
			if !ok {
				return nil
			}
			fmt.Fprintf(c.Response(), "data: %s\n\n", eventData)
			c.Response().Flush()
		case <-c.Request().Context().Done():
			return nil
		}
	}
}
