// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"gonum.org/v1/gonum/floats"
)

// CandidateID identifies a confirmed candidate within one cycle
type CandidateID string

// Ballot is one voter's ranking, most preferred first.
// Voter is informational only; the count treats ballots as anonymous.
type Ballot struct {
	Voter   string        `json:"voter,omitempty"`
	Ranking []CandidateID `json:"ranking"`
}

// Input is the snapshot a count runs against
type Input struct {
	Seats      int           `json:"seats"`
	Candidates []CandidateID `json:"candidates"`
	Ballots    []Ballot      `json:"ballots"`
}

// Weight is one candidate's vote weight within a Tally
type Weight struct {
	Candidate CandidateID
	Votes     float64
}

// Tally maps candidates to vote weights in candidate pool order.
type Tally []Weight

// Get returns the weight recorded for id
func (t Tally) Get(id CandidateID) (float64, bool) {
	for _, w := range t {
		if w.Candidate == id {
			return w.Votes, true
		}
	}
	return 0, false
}

// Total sums every weight in the tally
func (t Tally) Total() float64 {
	if len(t) == 0 {
		return 0
	}
	votes := make([]float64, len(t))
	for i, w := range t {
		votes[i] = w.Votes
	}
	return floats.Sum(votes)
}

// MarshalJSON encodes the tally as an object whose keys keep pool order.
func (t Tally) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, w := range t {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(string(w.Candidate))
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(w.Votes)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes an object into a tally, keeping key order.
func (t *Tally) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		*t = nil
		return nil
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("tally: expected object, got %v", tok)
	}

	var out Tally
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("tally: expected string key, got %v", tok)
		}
		var votes float64
		if err := dec.Decode(&votes); err != nil {
			return fmt.Errorf("tally: value for %q: %w", key, err)
		}
		out = append(out, Weight{Candidate: CandidateID(key), Votes: votes})
	}
	if _, err := dec.Token(); err != nil {
		return err
	}

	*t = out
	return nil
}

// Round records the state at the start of one iteration of the count and
// what happened during it. Rounds are never modified once appended.
type Round struct {
	Number     int           `json:"round"`
	Weights    Tally         `json:"weights"`
	Elected    []CandidateID `json:"elected,omitempty"`
	Eliminated *CandidateID  `json:"eliminated,omitempty"`
	Transfers  Tally         `json:"transfers,omitempty"`
	// Exhausted is the cumulative weight of exhausted ballots when the round began
	Exhausted float64 `json:"exhausted,omitempty"`
	// Fill marks the terminal round that seats candidates without reaching quota
	Fill bool `json:"fill,omitempty"`
}

// Result is the outcome of one count
type Result struct {
	Seats      int           `json:"seats"`
	Quota      int           `json:"quota"`
	Winners    []CandidateID `json:"winners"`
	Rounds     []Round       `json:"rounds"`
	ComputedAt time.Time     `json:"computed_at"`
}
