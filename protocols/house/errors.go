package house

import "errors"

// The error taxonomy of the boundary operations. Every rejection is reported
// synchronously and aborts the attempted mutation with no partial state
// change; callers match with errors.Is.
var (
	// ErrInvalidInput covers out-of-range ciphertexts, bad factors, wrong
	// stake amounts and other malformed arguments.
	ErrInvalidInput = errors.New("house: invalid input")
	// ErrProtocolViolation covers actions outside their required state and
	// ordering violations inside the commitment phase.
	ErrProtocolViolation = errors.New("house: protocol violation")
	// ErrNotFound is returned for unknown orders or empty claims.
	ErrNotFound = errors.New("house: not found")
	// ErrAlreadySettled is returned when settling an already settled order.
	ErrAlreadySettled = errors.New("house: order already settled")
	// ErrAlreadyCompensated is returned when every order of the claimant was
	// compensated before.
	ErrAlreadyCompensated = errors.New("house: orders already compensated")
	// ErrUnauthorized is returned when a dealer-only operation is called by
	// anyone else.
	ErrUnauthorized = errors.New("house: unauthorized")
	// ErrDeadlineExpired is returned by every deadline-gated operation
	// called on the wrong side of the reveal deadline.
	ErrDeadlineExpired = errors.New("house: deadline expired")
	// ErrInsufficientReserve is returned when the solvency guard trips.
	ErrInsufficientReserve = errors.New("house: insufficient reserve")
	// ErrPayoutFailed wraps a failed external value transfer.
	ErrPayoutFailed = errors.New("house: payout failed")
	// ErrReentrantCall is returned to any mutating call made while a value
	// transfer is in flight.
	ErrReentrantCall = errors.New("house: reentrant call")
)
