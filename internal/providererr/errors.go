// Package providererr defines the closed error taxonomy every provider
// adapter surfaces (§7 of the design). Store and queue code branches on
// these sentinels via errors.Is rather than inspecting HTTP status codes
// directly, keeping the taxonomy in one place.
package providererr

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel classes. Wrap with fmt.Errorf("...: %w", ErrX) to attach context
// while keeping errors.Is working.
var (
	// ErrNotFound is an authoritative absence: the upstream provider is
	// certain the entity does not exist. Callers must not retry.
	ErrNotFound = errors.New("provider: not found")

	// ErrForbidden means the request was rejected on credentials/permissions
	// grounds. Callers must not retry without operator intervention.
	ErrForbidden = errors.New("provider: forbidden")

	// ErrTransient covers network resets, timeouts, 5xx and 429 responses.
	// The job queue keeps retrying until attempts are exhausted.
	ErrTransient = errors.New("provider: transient failure")

	// ErrPermanent covers malformed responses and content-type mismatches
	// that a retry cannot fix. WithRetry returns it without retrying; the
	// worker pools record it through Queue.Fail like any other error, so the
	// job returns to pending until max_attempts is reached.
	ErrPermanent = errors.New("provider: permanent failure")
)

// Classify maps an HTTP status code (and, for transport-level failures, a
// nil response with a non-nil error) onto the taxonomy above. Mirrors the
// status-code branching the teacher's discogs.service.go does inline,
// generalized into a single reusable decision point shared by every
// adapter.
func Classify(statusCode int, transportErr error) error {
	if transportErr != nil && statusCode == 0 {
		return fmt.Errorf("%w: %v", ErrTransient, transportErr)
	}

	switch {
	case statusCode == http.StatusNotFound:
		return fmt.Errorf("%w: status %d", ErrNotFound, statusCode)
	case statusCode == http.StatusUnauthorized || statusCode == http.StatusForbidden:
		return fmt.Errorf("%w: status %d", ErrForbidden, statusCode)
	case statusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: status %d", ErrTransient, statusCode)
	case statusCode >= 500:
		return fmt.Errorf("%w: status %d", ErrTransient, statusCode)
	case statusCode >= 400:
		return fmt.Errorf("%w: status %d", ErrPermanent, statusCode)
	default:
		return nil
	}
}

// IsRetryable reports whether err is ErrTransient. The worker pools and the
// job queue do not consult it; every failed job is handled by the same
// attempts-based Queue.Fail.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrTransient)
}

// IsAuthoritativeAbsence reports whether err represents an upstream-confirmed
// "does not exist", as opposed to a failure that merely looks like one.
func IsAuthoritativeAbsence(err error) bool {
	return errors.Is(err, ErrNotFound)
}
