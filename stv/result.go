// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"slices"
	"time"
)

// assemble packages a finished count. Slices are copied so the Result
// never shares memory with the counter.
func assemble(seats, quota int, winners []CandidateID, rounds []Round, at time.Time) Result {
	out := Result{
		Seats:      seats,
		Quota:      quota,
		Winners:    slices.Clone(winners),
		Rounds:     make([]Round, len(rounds)),
		ComputedAt: at,
	}
	for i, r := range rounds {
		r.Weights = slices.Clone(r.Weights)
		r.Elected = slices.Clone(r.Elected)
		r.Transfers = slices.Clone(r.Transfers)
		out.Rounds[i] = r
	}
	return out
}
