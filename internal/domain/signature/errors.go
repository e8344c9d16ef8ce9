package signature

import "errors"

// Sentinel error kinds for signature validation.
var (
	ErrInvalidSignature  = errors.New("invalid signature")
	ErrSignatureTooLarge = errors.New("signature too large")
)
