package devserver

import (
	"errors"
	"fmt"
	"net/http"
)

// httpError carries a status, a machine-readable code and a client-safe
// message. Internal is logged but never sent.
type httpError struct {
	Status   int
	Code     string
	Message  string
	Internal error
}

func (e *httpError) Error() string {
	if e.Internal != nil {
		return fmt.Sprintf("%s: %s (internal: %v)", e.Code, e.Message, e.Internal)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *httpError) Unwrap() error {
	return e.Internal
}

func newNotFound(message string) *httpError {
	return &httpError{Status: http.StatusNotFound, Code: "not_found", Message: message}
}

func newBadRequest(message string) *httpError {
	return &httpError{Status: http.StatusBadRequest, Code: "bad_request", Message: message}
}

func newUnauthorized(message string) *httpError {
	return &httpError{Status: http.StatusUnauthorized, Code: "unauthorized", Message: message}
}

func newInternal(err error) *httpError {
	return &httpError{
		Status:   http.StatusInternalServerError,
		Code:     "internal_error",
		Message:  "an unexpected error occurred",
		Internal: err,
	}
}

// storeError maps store sentinel errors to HTTP errors.
func storeError(err error) *httpError {
	switch {
	case errors.Is(err, ErrNotFound):
		return newNotFound(err.Error())
	case errors.Is(err, ErrUnknownField), errors.Is(err, ErrInvalidValue):
		return newBadRequest(err.Error())
	default:
		return newInternal(err)
	}
}
