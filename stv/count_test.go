// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package stv_test

import (
	"encoding/json"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/ranked-pick/stv"
)

var fixedClock = stv.WithClock(func() time.Time {
	return time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
})

// repeat returns n ballots with the same ranking
func repeat(n int, ranking ...stv.CandidateID) []stv.Ballot {
	out := make([]stv.Ballot, n)
	for i := range out {
		out[i] = stv.Ballot{Ranking: ranking}
	}
	return out
}

func ballots(groups ...[]stv.Ballot) []stv.Ballot {
	var out []stv.Ballot
	for _, g := range groups {
		out = append(out, g...)
	}
	return out
}

func ids(names ...string) []stv.CandidateID {
	out := make([]stv.CandidateID, len(names))
	for i, n := range names {
		out[i] = stv.CandidateID(n)
	}
	return out
}

func TestCountImmediateMajority(t *testing.T) {
	in := stv.Input{
		Seats:      1,
		Candidates: ids("A", "B", "C"),
		Ballots: ballots(
			repeat(6, "A", "B"),
			repeat(3, "B"),
			repeat(1, "C"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Quota)
	assert.Equal(t, ids("A"), res.Winners)
	require.Len(t, res.Rounds, 1)

	r := res.Rounds[0]
	assert.Equal(t, 1, r.Number)
	assert.Equal(t, ids("A"), r.Elected)
	assert.Nil(t, r.Eliminated)
	assert.Nil(t, r.Transfers, "the filling seat moves no surplus")

	votes, ok := r.Weights.Get("A")
	require.True(t, ok)
	assert.Equal(t, 6.0, votes)
}

func TestCountListsCandidatesWithoutFirstPreferences(t *testing.T) {
	in := stv.Input{
		Seats:      1,
		Candidates: ids("A", "B", "C"),
		Ballots: ballots(
			repeat(3, "A"),
			repeat(1, "B", "C"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	require.Len(t, res.Rounds, 1)
	assert.Equal(t, stv.Tally{
		{Candidate: "A", Votes: 3},
		{Candidate: "B", Votes: 1},
		{Candidate: "C", Votes: 0},
	}, res.Rounds[0].Weights)

	ws, err := stv.Normalize(in)
	require.NoError(t, err)
	assert.Equal(t, 0.0, ws.Weights.Total(), "normalize hands the counter a zeroed tally")
}

func TestCountSurplusTransfer(t *testing.T) {
	// 17 ballots, 2 seats: quota = floor(17/3)+1 = 6
	in := stv.Input{
		Seats:      2,
		Candidates: ids("A", "B", "C", "D"),
		Ballots: ballots(
			repeat(8, "A", "B"),
			repeat(4, "B"),
			repeat(3, "C"),
			repeat(2, "D"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, 6, res.Quota)
	assert.Equal(t, ids("A", "B"), res.Winners)
	require.Len(t, res.Rounds, 2)

	first := res.Rounds[0]
	assert.Equal(t, ids("A"), first.Elected)
	require.Len(t, first.Transfers, 1)
	// surplus 2 over weight 8 is 0.25 per ballot, 8 ballots
	assert.Equal(t, stv.CandidateID("B"), first.Transfers[0].Candidate)
	assert.InDelta(t, 2.0, first.Transfers[0].Votes, 1e-9)
	assert.InDelta(t, 2.0, first.Transfers.Total(), 1e-9)

	second := res.Rounds[1]
	a, _ := second.Weights.Get("A")
	b, _ := second.Weights.Get("B")
	assert.InDelta(t, 6.0, a, 1e-9, "elected candidate keeps the quota")
	assert.InDelta(t, 6.0, b, 1e-9)
	assert.Equal(t, ids("B"), second.Elected)

	require.NoError(t, stv.CheckConservation(res, 17))
}

func TestCountSurplusExhausts(t *testing.T) {
	// 9 ballots, 2 seats: quota 4. A's surplus of 2 leaves on 6 ballots,
	// half of which have no further preference.
	in := stv.Input{
		Seats:      2,
		Candidates: ids("A", "B", "C"),
		Ballots: ballots(
			repeat(3, "A", "C"),
			repeat(3, "A"),
			repeat(2, "B"),
			repeat(1, "C"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, 4, res.Quota)
	require.GreaterOrEqual(t, len(res.Rounds), 2)

	first := res.Rounds[0]
	assert.Equal(t, ids("A"), first.Elected)
	c, ok := first.Transfers.Get("C")
	require.True(t, ok)
	assert.InDelta(t, 1.0, c, 1e-9)
	assert.InDelta(t, 1.0, res.Rounds[1].Exhausted, 1e-9)

	require.NoError(t, stv.CheckConservation(res, 9))
	assert.Len(t, res.Winners, 2)
}

func TestCountTieBrokenByLaterPreferences(t *testing.T) {
	// 11 ballots, 1 seat: quota 6. A and B tie on 1 first preference each;
	// B is ranked second once, A never, so A goes.
	in := stv.Input{
		Seats:      1,
		Candidates: ids("A", "B", "C", "D"),
		Ballots: ballots(
			repeat(5, "C"),
			repeat(3, "D"),
			repeat(1, "D", "B"),
			repeat(1, "A", "C"),
			repeat(1, "B", "D"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	require.Len(t, res.Rounds, 2)
	first := res.Rounds[0]
	require.NotNil(t, first.Eliminated)
	assert.Equal(t, stv.CandidateID("A"), *first.Eliminated)
	assert.Equal(t, stv.Tally{{Candidate: "C", Votes: 1}}, first.Transfers)

	_, stillListed := res.Rounds[1].Weights.Get("A")
	assert.False(t, stillListed, "eliminated candidates drop out of later rounds")
	assert.Equal(t, ids("C"), res.Winners)
}

func TestCountFillsRemainingSeats(t *testing.T) {
	in := stv.Input{
		Seats:      2,
		Candidates: ids("A", "B", "C"),
		Ballots: ballots(
			repeat(1, "A"),
			repeat(1, "B"),
			repeat(1, "C"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	require.Len(t, res.Rounds, 2)
	require.NotNil(t, res.Rounds[0].Eliminated)
	assert.Equal(t, stv.CandidateID("A"), *res.Rounds[0].Eliminated)

	last := res.Rounds[1]
	assert.True(t, last.Fill)
	assert.Equal(t, ids("B", "C"), last.Elected)
	assert.InDelta(t, 1.0, last.Exhausted, 1e-9)
	assert.Equal(t, ids("B", "C"), res.Winners)
}

func TestCountSeatsEqualCandidates(t *testing.T) {
	in := stv.Input{
		Seats:      2,
		Candidates: ids("A", "B"),
		Ballots: ballots(
			repeat(1, "B"),
			repeat(1, "A"),
			repeat(1, "B"),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	require.Len(t, res.Rounds, 1)
	assert.True(t, res.Rounds[0].Fill)
	assert.Equal(t, ids("B", "A"), res.Winners)
}

func TestCountEmptyRankingsCountTowardQuotaOnly(t *testing.T) {
	in := stv.Input{
		Seats:      1,
		Candidates: ids("A", "B"),
		Ballots: ballots(
			repeat(3, "A"),
			repeat(1),
		),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	assert.Equal(t, 3, res.Quota)
	assert.InDelta(t, 3.0, res.Rounds[0].Weights.Total(), 1e-9)
	assert.Equal(t, ids("A"), res.Winners)
}

func TestCountIsDeterministic(t *testing.T) {
	in := stv.Input{
		Seats:      2,
		Candidates: ids("P", "Q", "R", "S", "T"),
		Ballots: ballots(
			repeat(4, "P", "Q", "R"),
			repeat(3, "Q", "S"),
			repeat(3, "R", "T", "P"),
			repeat(2, "S", "R"),
			repeat(2, "T", "S"),
		),
	}

	first, err := stv.Count(in, fixedClock)
	require.NoError(t, err)
	second, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestCountDoesNotAliasInput(t *testing.T) {
	in := stv.Input{
		Seats:      1,
		Candidates: ids("A", "B"),
		Ballots:    ballots(repeat(2, "A", "B"), repeat(1, "B", "A")),
	}

	res, err := stv.Count(in, fixedClock)
	require.NoError(t, err)

	in.Candidates[0] = "Z"
	in.Ballots[0].Ranking[0] = "Z"
	assert.Equal(t, ids("A"), res.Winners)
}

func TestCountRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name string
		in   stv.Input
		want error
	}{
		{
			name: "zero seats",
			in:   stv.Input{Seats: 0, Candidates: ids("A"), Ballots: repeat(1, "A")},
			want: stv.ErrInvalidConfiguration,
		},
		{
			name: "more seats than candidates",
			in:   stv.Input{Seats: 3, Candidates: ids("A", "B"), Ballots: repeat(1, "A")},
			want: stv.ErrInvalidConfiguration,
		},
		{
			name: "duplicate candidate in pool",
			in:   stv.Input{Seats: 1, Candidates: ids("A", "A"), Ballots: repeat(1, "A")},
			want: stv.ErrInvalidConfiguration,
		},
		{
			name: "no ballots",
			in:   stv.Input{Seats: 1, Candidates: ids("A", "B")},
			want: stv.ErrNoBallots,
		},
		{
			name: "unknown candidate",
			in:   stv.Input{Seats: 1, Candidates: ids("A", "B"), Ballots: repeat(1, "A", "X")},
			want: stv.ErrInvalidBallot,
		},
		{
			name: "repeated candidate",
			in:   stv.Input{Seats: 1, Candidates: ids("A", "B"), Ballots: repeat(1, "B", "A", "B")},
			want: stv.ErrInvalidBallot,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := stv.Count(tt.in, fixedClock)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCountRandomElections(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))

	for n := 0; n < 300; n++ {
		in := randomInput(rng)

		res, err := stv.Count(in, fixedClock)
		require.NoError(t, err, "input %+v", in)

		require.Len(t, res.Winners, in.Seats)
		require.NotEmpty(t, res.Rounds)

		seen := make(map[stv.CandidateID]bool)
		for _, w := range res.Winners {
			require.False(t, seen[w], "%q elected twice", w)
			seen[w] = true
		}
		for i, r := range res.Rounds {
			require.Equal(t, i+1, r.Number)
		}

		var total float64
		for _, b := range in.Ballots {
			if len(b.Ranking) > 0 {
				total++
			}
		}
		require.InDelta(t, total, res.Rounds[0].Weights.Total(), 1e-9)
		require.NoError(t, stv.CheckConservation(res, total))
		require.NoError(t, stv.Verify(in, res))
	}
}

func randomInput(rng *rand.Rand) stv.Input {
	pool := ids("A", "B", "C", "D", "E", "F", "G")[:1+rng.IntN(7)]
	in := stv.Input{
		Seats:      1 + rng.IntN(len(pool)),
		Candidates: pool,
	}

	for range 1 + rng.IntN(40) {
		perm := rng.Perm(len(pool))
		ranking := make([]stv.CandidateID, rng.IntN(len(pool)+1))
		for i := range ranking {
			ranking[i] = pool[perm[i]]
		}
		in.Ballots = append(in.Ballots, stv.Ballot{Ranking: ranking})
	}
	return in
}
