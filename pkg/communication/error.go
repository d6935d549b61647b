package communication

import (
	"errors"
	"fmt"
)

// ErrSessionExpired signals that the stored credential was rejected and the
// user must re-authenticate. It is handled globally, never shown as a
// normal request error.
var ErrSessionExpired = errors.New("session expired")

// ErrTransport wraps network-level failures below the HTTP layer
var ErrTransport = errors.New("transport failure")

// RequestError is an authenticated-but-rejected response (4xx other than
// 401, or an envelope with success=false)
type RequestError struct {
	Status  int
	Code    string
	Message string
}

func (e *RequestError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("request rejected (%d %s): %s", e.Status, e.Code, e.Message)
	}
	return fmt.Sprintf("request rejected (%d)", e.Status)
}

// IsRejection reports whether err is a RequestError
func IsRejection(err error) bool {
	var requestError *RequestError
	return errors.As(err, &requestError)
}
