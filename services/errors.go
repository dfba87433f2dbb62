package services

import "errors"

// Business failures surfaced synchronously to callers. Each has a stable
// machine-readable reason used in API responses and hub error frames.
var (
	ErrCapacityExceeded = errors.New("plan limit reached")
	ErrResourceConflict = errors.New("console already linked or occupied")
	ErrStaleCandidate   = errors.New("candidate no longer matches the next slot")
	ErrUnavailable      = errors.New("slot is no longer available")
	ErrConsoleNotFound  = errors.New("console not found")
	ErrSlotNotFound     = errors.New("no adjacent slot at the given end time")
	ErrNoActivePlan     = errors.New("vendor has no active subscription")
)

// Reason maps a business error to its machine-readable reason string.
func Reason(err error) string {
	switch {
	case errors.Is(err, ErrCapacityExceeded):
		return "capacity_exceeded"
	case errors.Is(err, ErrResourceConflict):
		return "resource_conflict"
	case errors.Is(err, ErrStaleCandidate):
		return "stale_candidate"
	case errors.Is(err, ErrUnavailable):
		return "unavailable"
	case errors.Is(err, ErrConsoleNotFound):
		return "console_not_found"
	case errors.Is(err, ErrSlotNotFound):
		return "slot_not_found"
	case errors.Is(err, ErrNoActivePlan):
		return "no_active_plan"
	default:
		return "internal_error"
	}
}
