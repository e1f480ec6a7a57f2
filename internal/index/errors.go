package index

import (
	"errors"
	"fmt"
)

// StatusError is returned by HTTP backends for a non-2xx reply.
type StatusError struct {
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("index returned status %d", e.Code)
	}
	return fmt.Sprintf("index returned status %d: %s", e.Code, e.Message)
}

// HTTPStatus extracts the backend status code from err, if any.
func HTTPStatus(err error) (int, bool) {
	var se *StatusError
	if errors.As(err, &se) {
		return se.Code, true
	}
	return 0, false
}
