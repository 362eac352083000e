package quiz

import "errors"

var (
	ErrNotFound = errors.New("quiz not found")

	// ErrMalformedQuiz marks a quiz that cannot be played or scored.
	ErrMalformedQuiz = errors.New("malformed quiz")

	// ErrIllegalTransition is returned by Session operations that are not
	// allowed in the current state. The session is left unchanged.
	ErrIllegalTransition = errors.New("illegal transition")
)
