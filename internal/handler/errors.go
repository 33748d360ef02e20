package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/ai"
	"outreachpilot/internal/service"
)

// errorResponse maps service errors onto HTTP statuses so handlers
// stay out of the classification business.
func errorResponse(c echo.Context, err error) error {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput):
		status = http.StatusBadRequest
	case errors.Is(err, service.ErrRateLimited):
		status = http.StatusTooManyRequests
	case errors.Is(err, service.ErrAlreadySent):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNotSent):
		status = http.StatusConflict
	case errors.Is(err, service.ErrNoMailbox),
		errors.Is(err, service.ErrReauthRequired):
		status = http.StatusPreconditionFailed
	case errors.Is(err, ai.ErrProviderUnavailable):
		status = http.StatusBadRequest
	case errors.Is(err, ai.ErrProvider),
		errors.Is(err, ai.ErrUnparsable):
		status = http.StatusBadGateway
	}

	return c.JSON(status, map[string]string{
		"error": err.Error(),
	})
}
