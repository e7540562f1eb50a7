package campaign

import (
	"errors"
	"fmt"
)

// Sentinel errors for the campaign service layer.
var (
	ErrNotFound      = errors.New("campaign not found")
	ErrDuplicateName = errors.New("campaign name already exists")
)

// ValidationError reports a missing or malformed field on a write request.
// Callers surface it as a 400-equivalent; it is never fatal to the process.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// MatchInputError reports a structurally malformed profile or campaign
// argument reaching the matcher. Unlike a nil match result, this is a
// programming error: it gets logged, not shown to end users.
type MatchInputError struct {
	Reason string
}

func (e *MatchInputError) Error() string {
	return "malformed match input: " + e.Reason
}
