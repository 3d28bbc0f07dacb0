package logservice

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrNotFound = errors.New("logservice: conversation not found")
	ErrRejected = errors.New("logservice: request rejected")
)

// StatusError is returned for any non-2xx response.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("logservice: %s %s: API error: %d", e.Method, e.Path, e.StatusCode)
}

func (e *StatusError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}
