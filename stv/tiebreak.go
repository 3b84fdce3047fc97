// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import "slices"

// ResolveTie picks the candidate to eliminate from a group tied for last
// place.
//
// Starting at first preferences, it counts how many ballots rank each
// still-tied candidate at that level and keeps only those with the fewest.
// The first level that leaves a single candidate decides. If every level is
// exhausted with candidates still tied, the lexicographically smallest ID is
// returned. Returns "" only for an empty group.
func ResolveTie(tied []CandidateID, ballots []Ballot) CandidateID {
	if len(tied) == 0 {
		return ""
	}

	remaining := slices.Clone(tied)

	depth := 0
	for _, b := range ballots {
		depth = max(depth, len(b.Ranking))
	}

	for level := 0; level < depth && len(remaining) > 1; level++ {
		counts := make(map[CandidateID]int, len(remaining))
		for _, id := range remaining {
			counts[id] = 0
		}
		for _, b := range ballots {
			if level >= len(b.Ranking) {
				continue
			}
			if _, ok := counts[b.Ranking[level]]; ok {
				counts[b.Ranking[level]]++
			}
		}

		fewest := counts[remaining[0]]
		for _, id := range remaining[1:] {
			fewest = min(fewest, counts[id])
		}

		narrowed := remaining[:0]
		for _, id := range remaining {
			if counts[id] == fewest {
				narrowed = append(narrowed, id)
			}
		}
		remaining = narrowed
	}

	if len(remaining) == 1 {
		return remaining[0]
	}

	// Last resort
	return slices.Min(remaining)
}
