// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import "errors"

var (
	// ErrInvalidConfiguration means the seat count does not fit the candidate pool
	ErrInvalidConfiguration = errors.New("invalid configuration")
	ErrNoBallots            = errors.New("no ballots")
	// ErrInvalidBallot means a ranking repeats a candidate or names one outside the pool
	ErrInvalidBallot = errors.New("invalid ballot")
	// ErrInvariantViolation is an internal defect, never a user error
	ErrInvariantViolation = errors.New("invariant violation")
	ErrResultMismatch     = errors.New("result mismatch")
)
