// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"fmt"
	"math"
	"sort"
	"time"
)

const (
	// epsilon is the slack used when comparing weights against quota and each other
	epsilon = 1e-9
	// tolerance bounds accumulated floating point drift in conservation checks
	tolerance = 1e-6
)

type state int

const (
	stateCounting state = iota
	stateElecting
	stateEliminating
	stateFilling
	stateDone
)

func (s state) String() string {
	switch s {
	case stateCounting:
		return "counting"
	case stateElecting:
		return "electing"
	case stateEliminating:
		return "eliminating"
	case stateFilling:
		return "filling"
	case stateDone:
		return "done"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type status uint8

const (
	continuing status = iota
	elected
	excluded
)

type options struct {
	now func() time.Time
}

// Option configures a count
type Option func(*options)

// WithClock sets the clock used to stamp Result.ComputedAt
func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

// counter is the mutable state of one count. It never outlives Count.
type counter struct {
	ws      *WorkingSet
	quota   int
	weights []float64
	status  []status
	parcels []parcel

	winners    []CandidateID
	eliminated int
	exhausted  float64
	total      float64
	rounds     []Round
}

// Count runs a Single Transferable Vote count over in.
func Count(in Input, opts ...Option) (Result, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}

	ws, err := Normalize(in)
	if err != nil {
		return Result{}, err
	}

	c := newCounter(ws)
	if err := c.run(); err != nil {
		return Result{}, err
	}

	return assemble(ws.Seats, c.quota, c.winners, c.rounds, o.now()), nil
}

func newCounter(ws *WorkingSet) *counter {
	c := &counter{
		ws:      ws,
		quota:   Quota(len(ws.Ballots), ws.Seats),
		weights: make([]float64, len(ws.Candidates)),
		status:  make([]status, len(ws.Candidates)),
		parcels: make([]parcel, len(ws.Ballots)),
	}
	for i, w := range ws.Weights {
		c.weights[i] = w.Votes
	}

	// First preferences
	for i, b := range ws.Ballots {
		if len(b.Ranking) == 0 {
			c.parcels[i] = parcel{holder: -1}
			continue
		}
		idx := ws.index[b.Ranking[0]]
		c.parcels[i] = parcel{holder: idx, pos: 0, value: 1}
		c.weights[idx]++
		c.total++
	}

	return c
}

func (c *counter) run() error {
	st := stateCounting
	var round Round
	var reached []int

	for st != stateDone {
		switch st {
		case stateCounting:
			if !c.open() {
				st = stateFilling
				continue
			}
			round = c.snapshot()
			reached = c.reachers()
			if len(reached) > 0 {
				st = stateElecting
			} else {
				st = stateEliminating
			}

		case stateElecting:
			if err := c.elect(&round, reached); err != nil {
				return err
			}
			st = stateCounting

		case stateEliminating:
			if err := c.eliminate(&round); err != nil {
				return err
			}
			st = stateCounting

		case stateFilling:
			if err := c.fill(); err != nil {
				return err
			}
			st = stateDone
		}
	}

	return nil
}

// open reports whether another round is needed
func (c *counter) open() bool {
	return len(c.winners) < c.ws.Seats &&
		c.eliminated < len(c.ws.Candidates)-c.ws.Seats
}

// snapshot records current weights for every candidate not yet eliminated
func (c *counter) snapshot() Round {
	weights := make(Tally, 0, len(c.weights))
	for i, id := range c.ws.Candidates {
		if c.status[i] == excluded {
			continue
		}
		weights = append(weights, Weight{Candidate: id, Votes: c.weights[i]})
	}
	return Round{
		Number:    len(c.rounds) + 1,
		Weights:   weights,
		Exhausted: c.exhausted,
	}
}

// reachers returns the continuing candidates at or above quota, highest
// weight first, capped at the number of open seats.
func (c *counter) reachers() []int {
	var out []int
	for i, s := range c.status {
		if s == continuing && c.weights[i] >= float64(c.quota)-epsilon {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		return c.weights[out[a]] > c.weights[out[b]]
	})
	return out[:min(len(out), c.ws.Seats-len(c.winners))]
}

func (c *counter) elect(round *Round, idxs []int) error {
	for _, i := range idxs {
		id := c.ws.Candidates[i]
		c.status[i] = elected
		c.winners = append(c.winners, id)
		round.Elected = append(round.Elected, id)
	}

	// The seat that fills the count needs no surplus moved
	if len(c.winners) < c.ws.Seats {
		f := make(flow)
		for _, i := range idxs {
			c.transferSurplus(i, f)
		}
		round.Transfers = c.tally(f)
	}

	return c.commit(*round)
}

func (c *counter) eliminate(round *Round) error {
	fewest := math.Inf(1)
	for i, s := range c.status {
		if s == continuing {
			fewest = min(fewest, c.weights[i])
		}
	}

	var lowest []CandidateID
	for i, s := range c.status {
		if s == continuing && c.weights[i] <= fewest+epsilon {
			lowest = append(lowest, c.ws.Candidates[i])
		}
	}
	if len(lowest) == 0 {
		return fmt.Errorf("%w: no continuing candidate to eliminate in round %d", ErrInvariantViolation, round.Number)
	}

	loser := lowest[0]
	if len(lowest) > 1 {
		loser = ResolveTie(lowest, c.ws.Ballots)
	}

	idx := c.ws.index[loser]
	c.status[idx] = excluded
	c.eliminated++
	round.Eliminated = &loser

	f := make(flow)
	if err := c.transferExcluded(idx, f); err != nil {
		return err
	}
	round.Transfers = c.tally(f)

	return c.commit(*round)
}

// fill seats the highest remaining candidates once no further round can
// run, recording a terminal round so every seat is accounted for.
func (c *counter) fill() error {
	need := c.ws.Seats - len(c.winners)
	if need <= 0 {
		return nil
	}

	var rest []int
	for i, s := range c.status {
		if s == continuing {
			rest = append(rest, i)
		}
	}
	sort.SliceStable(rest, func(a, b int) bool {
		return c.weights[rest[a]] > c.weights[rest[b]]
	})

	round := c.snapshot()
	round.Fill = true
	for _, i := range rest[:min(need, len(rest))] {
		id := c.ws.Candidates[i]
		c.status[i] = elected
		c.winners = append(c.winners, id)
		round.Elected = append(round.Elected, id)
	}

	return c.commit(round)
}

// commit checks the count's invariants and appends round to the audit trail.
func (c *counter) commit(round Round) error {
	held := c.exhausted
	for i, w := range c.weights {
		if w < -epsilon {
			return fmt.Errorf("%w: %q has negative weight %v in round %d",
				ErrInvariantViolation, c.ws.Candidates[i], w, round.Number)
		}
		if c.status[i] != excluded {
			held += w
		}
	}
	if math.Abs(held-c.total) > tolerance {
		return fmt.Errorf("%w: round %d accounts for %v of %v votes",
			ErrInvariantViolation, round.Number, held, c.total)
	}

	c.rounds = append(c.rounds, round)
	return nil
}
