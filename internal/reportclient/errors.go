package reportclient

import (
	"errors"
	"fmt"
)

// Sentinel error kinds for the client.
var (
	ErrUnexpectedStatus = errors.New("unexpected status")
)

// StatusError carries a non-2xx response. It matches ErrUnexpectedStatus.
type StatusError struct {
	StatusCode int
	Code       string
	Message    string
}

func (e *StatusError) Error() string {
	if e.Code == "" {
		return fmt.Sprintf("%s %d", ErrUnexpectedStatus, e.StatusCode)
	}
	return fmt.Sprintf("%s %d: %s: %s", ErrUnexpectedStatus, e.StatusCode, e.Code, e.Message)
}

func (e *StatusError) Unwrap() error { return ErrUnexpectedStatus }
