package scoring

import "errors"

// Sentinel kinds for scoring errors.
var (
	ErrUnknownSkill = errors.New("unknown skill")
)
