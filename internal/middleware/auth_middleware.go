package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"outreachpilot/internal/handler"
)

// AuthMiddleware checks if the user is authenticated
func AuthMiddleware(authHandler *handler.AuthHandler) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			// Check if the user is authenticated by trying to get the current user
			_, err := authHandler.GetCurrentUser(c)
			if err != nil {
				return c.JSON(http.StatusUnauthorized, map[string]string{
					"error": "Unauthorized",
				})
			}

			return next(c)
		}
	}
}
