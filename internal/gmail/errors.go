package gmail

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrUnauthorized means the access token was rejected by the provider.
	ErrUnauthorized = errors.New("gmail: unauthorized")
	// ErrForbidden means the token is valid but lacks the required scope.
	ErrForbidden = errors.New("gmail: forbidden")
	// ErrNotFound means the requested message or thread does not exist.
	ErrNotFound = errors.New("gmail: not found")
	// ErrTransport covers everything else that went wrong talking to Gmail.
	ErrTransport = errors.New("gmail: transport error")
)

// wrapAPIError maps Gmail API status codes onto the package sentinels so
// callers can branch with errors.Is instead of inspecting response bodies.
func wrapAPIError(err error) error {
	if err == nil {
		return nil
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusUnauthorized:
			return errors.Join(ErrUnauthorized, err)
		case http.StatusForbidden:
			return errors.Join(ErrForbidden, err)
		case http.StatusNotFound:
			return errors.Join(ErrNotFound, err)
		}
	}
	return errors.Join(ErrTransport, err)
}
