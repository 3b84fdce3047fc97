// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"fmt"
	"math"
)

// parcel is the part of a ballot's vote still in play.
// holder is a pool index, or -1 once the ballot has exhausted.
type parcel struct {
	holder int
	pos    int
	value  float64
}

// flow accumulates the weight each recipient received during one round
type flow map[int]float64

// nextPreference returns the first continuing candidate on ranking at or
// after position from, as a pool index and ranking position.
func (c *counter) nextPreference(ranking []CandidateID, from int) (int, int, bool) {
	for pos := from; pos < len(ranking); pos++ {
		idx := c.ws.index[ranking[pos]]
		if c.status[idx] == continuing {
			return idx, pos, true
		}
	}
	return -1, -1, false
}

// transferSurplus moves an elected candidate's surplus on to the next
// continuing preference of each ballot that ranked them first. Every such
// ballot carries surplus/weight; ballots that arrived by earlier transfers
// stay put. The candidate keeps whatever does not leave.
func (c *counter) transferSurplus(winner int, f flow) {
	weight := c.weights[winner]
	surplus := weight - float64(c.quota)
	if surplus <= epsilon {
		return
	}
	value := surplus / weight
	id := c.ws.Candidates[winner]

	var left float64
	for i, b := range c.ws.Ballots {
		if len(b.Ranking) == 0 || b.Ranking[0] != id {
			continue
		}
		left += value

		to, pos, ok := c.nextPreference(b.Ranking, 1)
		if !ok {
			c.exhausted += value
			continue
		}
		c.parcels[i] = parcel{holder: to, pos: pos, value: value}
		c.weights[to] += value
		f[to] += value
	}

	c.weights[winner] -= left
}

// transferExcluded moves every parcel held by an eliminated candidate on to
// its next continuing preference at its current value. Parcels with nowhere
// left to go exhaust.
func (c *counter) transferExcluded(loser int, f flow) error {
	var moved float64
	for i := range c.parcels {
		p := &c.parcels[i]
		if p.holder != loser {
			continue
		}
		moved += p.value

		to, pos, ok := c.nextPreference(c.ws.Ballots[i].Ranking, p.pos+1)
		if !ok {
			c.exhausted += p.value
			p.holder = -1
			continue
		}
		c.weights[to] += p.value
		f[to] += p.value
		p.holder, p.pos = to, pos
	}

	if math.Abs(moved-c.weights[loser]) > tolerance {
		return fmt.Errorf("%w: %q held %v but its ballots carried %v",
			ErrInvariantViolation, c.ws.Candidates[loser], c.weights[loser], moved)
	}
	c.weights[loser] = 0
	return nil
}

// tally converts a flow to a Tally in pool order
func (c *counter) tally(f flow) Tally {
	if len(f) == 0 {
		return nil
	}
	out := make(Tally, 0, len(f))
	for i, id := range c.ws.Candidates {
		if amount, ok := f[i]; ok {
			out = append(out, Weight{Candidate: id, Votes: amount})
		}
	}
	return out
}
