// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"fmt"
	"slices"
	"time"

	"gonum.org/v1/gonum/floats/scalar"
)

// Verify recounts in and checks that stored matches the recount round by
// round. A stored result that differs returns ErrResultMismatch; input that
// fails validation returns the validation error.
func Verify(in Input, stored Result) error {
	recount, err := Count(in, WithClock(func() time.Time { return stored.ComputedAt }))
	if err != nil {
		return err
	}

	if stored.Seats != recount.Seats {
		return fmt.Errorf("%w: seats %d, recount %d", ErrResultMismatch, stored.Seats, recount.Seats)
	}
	if stored.Quota != recount.Quota {
		return fmt.Errorf("%w: quota %d, recount %d", ErrResultMismatch, stored.Quota, recount.Quota)
	}
	if !slices.Equal(stored.Winners, recount.Winners) {
		return fmt.Errorf("%w: winners %v, recount %v", ErrResultMismatch, stored.Winners, recount.Winners)
	}
	if len(stored.Rounds) != len(recount.Rounds) {
		return fmt.Errorf("%w: %d rounds, recount %d", ErrResultMismatch, len(stored.Rounds), len(recount.Rounds))
	}

	for i := range recount.Rounds {
		if err := compareRounds(stored.Rounds[i], recount.Rounds[i]); err != nil {
			return fmt.Errorf("%w: round %d: %v", ErrResultMismatch, i+1, err)
		}
	}

	return nil
}

func compareRounds(got, want Round) error {
	switch {
	case got.Number != want.Number:
		return fmt.Errorf("numbered %d, want %d", got.Number, want.Number)
	case !slices.Equal(got.Elected, want.Elected):
		return fmt.Errorf("elected %v, want %v", got.Elected, want.Elected)
	case (got.Eliminated == nil) != (want.Eliminated == nil),
		got.Eliminated != nil && *got.Eliminated != *want.Eliminated:
		return fmt.Errorf("eliminated %v, want %v", deref(got.Eliminated), deref(want.Eliminated))
	case got.Fill != want.Fill:
		return fmt.Errorf("fill %t, want %t", got.Fill, want.Fill)
	case !scalar.EqualWithinAbs(got.Exhausted, want.Exhausted, tolerance):
		return fmt.Errorf("exhausted %v, want %v", got.Exhausted, want.Exhausted)
	}
	if err := compareTallies(got.Weights, want.Weights); err != nil {
		return fmt.Errorf("weights: %w", err)
	}
	if err := compareTallies(got.Transfers, want.Transfers); err != nil {
		return fmt.Errorf("transfers: %w", err)
	}
	return nil
}

func compareTallies(got, want Tally) error {
	if len(got) != len(want) {
		return fmt.Errorf("%d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].Candidate != want[i].Candidate {
			return fmt.Errorf("entry %d is %q, want %q", i, got[i].Candidate, want[i].Candidate)
		}
		if !scalar.EqualWithinAbs(got[i].Votes, want[i].Votes, tolerance) {
			return fmt.Errorf("%q has %v, want %v", want[i].Candidate, got[i].Votes, want[i].Votes)
		}
	}
	return nil
}

func deref(id *CandidateID) string {
	if id == nil {
		return "none"
	}
	return string(*id)
}

// CheckConservation confirms that in every round the weights still in play
// plus the exhausted weight add up to total.
func CheckConservation(res Result, total float64) error {
	for _, r := range res.Rounds {
		held := r.Weights.Total() + r.Exhausted
		if !scalar.EqualWithinAbs(held, total, tolerance) {
			return fmt.Errorf("%w: round %d holds %v of %v votes", ErrInvariantViolation, r.Number, held, total)
		}
	}
	return nil
}
