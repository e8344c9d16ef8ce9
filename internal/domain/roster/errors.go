package roster

import (
	"errors"
	"fmt"
)

// Sentinel kinds for roster errors.
var (
	ErrDuplicateCoach   = errors.New("coach already exists")
	ErrInvalidCoachName = errors.New("coach name must not be empty")
	ErrReadSource       = errors.New("read roster source failed")
)

// DuplicateCoachError reports the name rejected by AddCoach.
// It matches ErrDuplicateCoach with errors.Is.
type DuplicateCoachError struct {
	Name string
}

func (e *DuplicateCoachError) Error() string {
	return fmt.Sprintf("%s: %q", ErrDuplicateCoach, e.Name)
}

func (e *DuplicateCoachError) Unwrap() error { return ErrDuplicateCoach }
