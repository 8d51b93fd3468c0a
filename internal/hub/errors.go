package hub

import (
	"errors"
	"fmt"
)

// ErrInvalidResponse is wrapped when the hub answers with a success status
// but a body that cannot be decoded into the expected shape.
var ErrInvalidResponse = errors.New("invalid response from hub")

// TransportError is returned when a request never produced an HTTP response
// (DNS failure, refused connection, timeout, cancelled context).
type TransportError struct {
	Method string
	Path   string
	Err    error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("failed to reach hub for %s %s: %v", e.Method, e.Path, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// AuthenticationError is returned when the hub rejects the credentials
// submitted to the login endpoint.
type AuthenticationError struct {
	Username   string
	StatusCode int
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf("hub rejected credentials for %q: status %d", e.Username, e.StatusCode)
}

// RequestError carries the status code of a non-2xx answer that the
// endpoint does not recognise as an alternate outcome.
type RequestError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *RequestError) Error() string {
	if len(e.Body) == 0 {
		return fmt.Sprintf("unexpected status from hub for %s %s: %d", e.Method, e.Path, e.StatusCode)
	}
	return fmt.Sprintf("unexpected status from hub for %s %s: %d, body: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// IsUnauthorized reports whether err is a RequestError caused by an
// expired or missing session that survived the re-authentication retry.
func IsUnauthorized(err error) bool {
	var reqErr *RequestError
	return errors.As(err, &reqErr) && reqErr.StatusCode == 401
}
