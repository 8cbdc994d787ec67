package interfaces

import "errors"

// Failure classes for the question cycle. Handlers and the session service
// use errors.Is against these sentinels to report which stage failed; none of
// them are fatal to a session.
var (
	// ErrRetrieval indicates the external retrieval call failed. Callers
	// must not substitute an empty passage set for a failed retrieval.
	ErrRetrieval = errors.New("retrieval failed")

	// ErrGeneration indicates the external model call failed
	ErrGeneration = errors.New("generation failed")

	// ErrMalformedResponse indicates a successful external call returned a
	// response missing expected fields
	ErrMalformedResponse = errors.New("malformed service response")

	// ErrSessionNotFound is returned for operations on an unknown session id
	ErrSessionNotFound = errors.New("session not found")

	// ErrSessionNotActive is returned when a question is asked outside an
	// active session
	ErrSessionNotActive = errors.New("session not active")

	// ErrCycleInFlight is returned when a question arrives while a previous
	// question cycle for the same session is still running
	ErrCycleInFlight = errors.New("question cycle already in flight")
)
