// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package stv implements the multi-seat Single Transferable Vote count used to
decide a cycle's winners.

The package is a pure batch computation: it performs no I/O, keeps no state
between calls and can be invoked concurrently for different cycles.

# Counting

Count takes an immutable snapshot of the candidate pool and the ballots and
returns a Result:

	res, err := stv.Count(stv.Input{
		Seats:      2,
		Candidates: []stv.CandidateID{"a", "b", "c"},
		Ballots: []stv.Ballot{
			{Voter: "v1", Ranking: []stv.CandidateID{"a", "b"}},
			{Voter: "v2", Ranking: []stv.CandidateID{"c"}},
		},
	})

The count proceeds in rounds:

  - Normalize rejects malformed input (ErrInvalidConfiguration,
    ErrNoBallots, ErrInvalidBallot) before any counting happens.
  - Quota is the Droop quota, floor(ballots/(seats+1)) + 1.
  - Each round snapshots the current weights, then either elects every
    candidate at or above quota (highest first) or eliminates the lowest.
  - Surplus of an elected candidate is carried forward by the ballots that
    ranked them first, each at surplus/weight.
  - An eliminated candidate's ballots move on at their current value.
  - Ties for last place go to ResolveTie.
  - Seats still open when the pool runs out are filled by weight in a final
    round flagged Fill.

# Ordering

Every Tally iterates, and encodes to JSON, in the insertion order of the
candidate pool. Together with ResolveTie's fixed fallback this makes two
counts of the same input byte-identical once the clock is pinned with
WithClock.

# Verification

Verify recounts an input and compares the outcome against a stored Result.
CheckConservation confirms that no round created or lost vote weight.
*/
package stv
