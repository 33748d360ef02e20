package handler

import (
	"net/http"
	"net/url"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/service"
	"outreachpilot/internal/tracking"
)

// TrackingHandler serves the public pixel and click endpoints that
// instrumented emails point at. Nothing here requires a session.
type TrackingHandler struct {
	analyticsService service.AnalyticsService
	logger           echo.Logger
}

func NewTrackingHandler(analyticsService service.AnalyticsService, logger echo.Logger) *TrackingHandler {
	return &TrackingHandler{
		analyticsService: analyticsService,
		logger:           logger,
	}
}

// Open records a pixel load. The pixel is always served, even when the
// tracking ID is unknown, so broken image icons never leak that a
// message was instrumented.
func (h *TrackingHandler) Open(c echo.Context) error {
	trackingID := c.QueryParam("tid")
	if trackingID != "" {
		_, err := h.analyticsService.RecordOpen(
			c.Request().Context(),
			trackingID,
			c.RealIP(),
			c.Request().UserAgent(),
		)
		if err != nil {
			h.logger.Warn("Failed to record open:", err)
		}
	}

	c.Response().Header().Set("Cache-Control", "no-store, no-cache, must-revalidate")
	c.Response().Header().Set("Pragma", "no-cache")
	return c.Blob(http.StatusOK, "image/gif", tracking.PixelGIF)
}

// Click records a click and forwards the reader to the original URL
func (h *TrackingHandler) Click(c echo.Context) error {
	trackingID := c.QueryParam("tid")
	target := c.QueryParam("url")

	parsed, err := url.Parse(target)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": "Invalid redirect URL",
		})
	}

	if trackingID != "" {
		_, err := h.analyticsService.RecordClick(
			c.Request().Context(),
			trackingID,
			c.RealIP(),
			c.Request().UserAgent(),
			target,
		)
		if err != nil {
			h.logger.Warn("Failed to record click:", err)
		}
	}

	return c.Redirect(http.StatusFound, target)
}
