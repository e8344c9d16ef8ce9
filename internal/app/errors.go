package service

import (
	"errors"
)

// Sentinel error kinds for the session service.
var (
	ErrLoadRoster = errors.New("load roster failed")
)
