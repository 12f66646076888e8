package domain

import (
	"errors"
	"fmt"
)

// Error families. Specific errors wrap one of these so callers can branch
// on the family with errors.Is.
var (
	ErrNotFound      = errors.New("not found")
	ErrRuleViolation = errors.New("domain rule violation")
	ErrIntegrity     = errors.New("integrity error")
)

var (
	ErrActivityNotFound  = fmt.Errorf("activity %w", ErrNotFound)
	ErrTaskNotFound      = fmt.Errorf("task %w", ErrNotFound)
	ErrTimeEntryNotFound = fmt.Errorf("time entry %w", ErrNotFound)
	ErrNoActiveEntry     = fmt.Errorf("no running time entry: %w", ErrNotFound)
)

var (
	ErrActivityFinalized   = fmt.Errorf("activity finalized: %w", ErrRuleViolation)
	ErrTaskClosed          = fmt.Errorf("task closed: %w", ErrRuleViolation)
	ErrEntryAlreadyStopped = fmt.Errorf("time entry already stopped: %w", ErrRuleViolation)
	ErrEntryAlreadyRunning = fmt.Errorf("task already has a running time entry: %w", ErrRuleViolation)
	ErrInvalidInput        = fmt.Errorf("invalid input: %w", ErrRuleViolation)
)
