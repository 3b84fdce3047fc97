// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import "fmt"

// WorkingSet is validated input in the form the counter works on.
// Candidates and rankings are copies; nothing here aliases the caller's Input.
type WorkingSet struct {
	Seats      int
	Candidates []CandidateID
	Ballots    []Ballot
	// Weights starts at zero for every candidate, in pool order, and seeds
	// the counter's running tally
	Weights Tally

	index map[CandidateID]int
}

// Normalize validates in and builds the working set for a count.
func Normalize(in Input) (*WorkingSet, error) {
	if in.Seats < 1 || in.Seats > len(in.Candidates) {
		return nil, fmt.Errorf("%w: %d seats for %d candidates", ErrInvalidConfiguration, in.Seats, len(in.Candidates))
	}

	ws := &WorkingSet{
		Seats:      in.Seats,
		Candidates: make([]CandidateID, len(in.Candidates)),
		Weights:    make(Tally, len(in.Candidates)),
		index:      make(map[CandidateID]int, len(in.Candidates)),
	}
	for i, id := range in.Candidates {
		if id == "" {
			return nil, fmt.Errorf("%w: empty candidate id at position %d", ErrInvalidConfiguration, i)
		}
		if _, dup := ws.index[id]; dup {
			return nil, fmt.Errorf("%w: candidate %q listed twice", ErrInvalidConfiguration, id)
		}
		ws.index[id] = i
		ws.Candidates[i] = id
		ws.Weights[i] = Weight{Candidate: id}
	}

	if len(in.Ballots) == 0 {
		return nil, ErrNoBallots
	}

	ws.Ballots = make([]Ballot, len(in.Ballots))
	for i, b := range in.Ballots {
		seen := make(map[CandidateID]bool, len(b.Ranking))
		for _, id := range b.Ranking {
			if _, ok := ws.index[id]; !ok {
				return nil, fmt.Errorf("%w: ballot %d ranks unknown candidate %q", ErrInvalidBallot, i, id)
			}
			if seen[id] {
				return nil, fmt.Errorf("%w: ballot %d ranks %q more than once", ErrInvalidBallot, i, id)
			}
			seen[id] = true
		}
		ws.Ballots[i] = Ballot{
			Voter:   b.Voter,
			Ranking: append([]CandidateID(nil), b.Ranking...),
		}
	}

	return ws, nil
}

// Index returns the pool position of id
func (ws *WorkingSet) Index(id CandidateID) (int, bool) {
	i, ok := ws.index[id]
	return i, ok
}
