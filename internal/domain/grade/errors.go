package grade

import "errors"

// Sentinel kinds for grade errors.
var (
	ErrUnknownGrade = errors.New("unknown grade")
)
